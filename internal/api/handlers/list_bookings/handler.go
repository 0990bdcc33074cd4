package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings/models"
)

const msgInvalidQuery = "некорректные параметры запроса: нужен email, статус confirmed или cancelled"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?email={email}&status={status}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.GetBookingsByEmailRequest{Email: query.Get("email")}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListByEmail(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid query: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: count=%d", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
