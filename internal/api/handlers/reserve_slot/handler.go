package reserve_slot

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/api/handlers"
	reserveSlot "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgExperienceNotFound   = "впечатление не найдено"
	msgSlotNotFound         = "слот не найден"
	msgInsufficientCapacity = "недостаточно свободных мест в выбранном слоте"
	msgBookingFailed        = "не удалось оформить бронирование, попробуйте еще раз"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var capErr *reserveSlot.InsufficientCapacityError

		switch {
		case errors.Is(err, reserveSlot.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, validationMessage(err))

		case errors.Is(err, reserveSlot.ErrExperienceNotFound):
			h.logger.Warn("POST /bookings - Experience not found: experience_id=%s", req.ExperienceID)
			handlers.RespondNotFound(w, msgExperienceNotFound)

		case errors.Is(err, reserveSlot.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.As(err, &capErr):
			h.logger.Warn("POST /bookings - Insufficient capacity: slot_id=%s, requested=%d, available=%d",
				req.SlotID, capErr.Requested, capErr.Available)
			handlers.RespondJSON(w, http.StatusConflict, CapacityErrorResponse{
				Error:     msgInsufficientCapacity,
				Available: capErr.Available,
			})

		case errors.Is(err, reserveSlot.ErrBookingFailed):
			h.logger.Error("POST /bookings - Booking failed: slot_id=%s, error=%v", req.SlotID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgBookingFailed)

		default:
			h.logger.Error("POST /bookings - Failed to reserve slot: slot_id=%s, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_ref=%s, slot_id=%s, quantity=%d",
		result.BookingRef, result.SlotID, result.Quantity)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// validationMessage отдает клиенту текст ошибки валидации без префикса пакета
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), reserveSlot.ErrValidation.Error()+": ")
}
