package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings"
)

const (
	msgNotFound     = "бронирование не найдено"
	msgCannotCancel = "бронирование не может быть отменено"
)

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

// Handle PATCH /api/v1/bookings/{bookingRef}/cancel
// Места возвращаются в слот в той же транзакции, что и смена статуса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingRef := mux.Vars(r)["bookingRef"]

	booking, err := h.service.Cancel(r.Context(), bookingRef)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{ref}/cancel - Booking not found: booking_ref=%s", bookingRef)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{ref}/cancel - Cannot cancel: booking_ref=%s", bookingRef)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{ref}/cancel - Failed to cancel booking: booking_ref=%s, error=%v",
				bookingRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{ref}/cancel - Booking cancelled successfully: booking_ref=%s, quantity=%d",
		booking.BookingRef, booking.Quantity)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
