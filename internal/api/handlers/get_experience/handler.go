package get_experience

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers"
	getExperience "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/get_experience"
)

const (
	msgInvalidExperienceID = "некорректный ID впечатления"
	msgExperienceNotFound  = "впечатление не найдено"
)

type Handler struct {
	useCase GetExperienceUseCase
	logger  Logger
}

func NewHandler(useCase GetExperienceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/experiences/{experienceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	experienceID := mux.Vars(r)["experienceId"]

	result, err := h.useCase.Execute(r.Context(), &getExperience.Request{ExperienceID: experienceID})
	if err != nil {
		switch {
		case errors.Is(err, getExperience.ErrInvalidInput):
			h.logger.Warn("GET /experiences/{id} - Invalid experience ID: %s", experienceID)
			handlers.RespondBadRequest(w, msgInvalidExperienceID)

		case errors.Is(err, getExperience.ErrExperienceNotFound):
			h.logger.Warn("GET /experiences/{id} - Experience not found: experience_id=%s", experienceID)
			handlers.RespondNotFound(w, msgExperienceNotFound)

		default:
			h.logger.Error("GET /experiences/{id} - Failed to get experience: experience_id=%s, error=%v", experienceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /experiences/{id} - Experience retrieved successfully: experience_id=%s, slots=%d",
		experienceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
