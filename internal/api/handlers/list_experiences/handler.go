package list_experiences

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/experiences
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListExperiences(r.Context())
	if err != nil {
		h.logger.Error("GET /experiences - Failed to list experiences: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /experiences - Experiences retrieved successfully: count=%d", len(result.Experiences))
	handlers.RespondJSON(w, http.StatusOK, result.Experiences)
}
