package validate_promo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers"
	validatePromo "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/validate_promo"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPromoNotFound      = "промокод не найден"
)

type Handler struct {
	useCase ValidatePromoUseCase
	logger  Logger
}

func NewHandler(useCase ValidatePromoUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/promo/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidatePromoRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /promo/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, validatePromo.ErrInvalidInput):
			h.logger.Warn("POST /promo/validate - Validation error: %v", err)
			handlers.RespondBadRequest(w, strings.TrimPrefix(err.Error(), validatePromo.ErrInvalidInput.Error()+": "))

		case errors.Is(err, validatePromo.ErrPromoNotFound):
			h.logger.Warn("POST /promo/validate - Promo code not found: code=%q", req.Code)
			handlers.RespondNotFound(w, msgPromoNotFound)

		default:
			h.logger.Error("POST /promo/validate - Failed to validate promo code: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /promo/validate - Promo code valid: code=%s, discount=%s", result.Code, result.Discount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
