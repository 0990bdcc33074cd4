package reserve_slot

import (
	"time"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings/models"
	reserveSlot "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	ExperienceID string `json:"experienceId"`
	SlotID       string `json:"slotId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Quantity     int    `json:"quantity"`
	PromoCode    string `json:"promoCode,omitempty"`
}

// BookingResponse HTTP response model
// Суммы точные, с двумя знаками; displayTotal округлен для показа
type BookingResponse struct {
	BookingRef     string  `json:"bookingRef"`
	ExperienceID   string  `json:"experienceId"`
	SlotID         string  `json:"slotId"`
	ExperienceName string  `json:"experienceName"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Quantity       int     `json:"quantity"`
	PromoCode      *string `json:"promoCode,omitempty"`
	Subtotal       string  `json:"subtotal"`
	Discount       string  `json:"discount"`
	Taxes          string  `json:"taxes"`
	Total          string  `json:"total"`
	DisplayTotal   int64   `json:"displayTotal"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
}

// CapacityErrorResponse ответ при нехватке мест
type CapacityErrorResponse struct {
	Error     string `json:"error"`
	Available int    `json:"available"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest() *reserveSlot.Request {
	return &reserveSlot.Request{
		ExperienceID: r.ExperienceID,
		SlotID:       r.SlotID,
		FullName:     r.FullName,
		Email:        r.Email,
		Quantity:     r.Quantity,
		PromoCode:    r.PromoCode,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *BookingResponse {
	return &BookingResponse{
		BookingRef:     resp.BookingRef,
		ExperienceID:   resp.ExperienceID,
		SlotID:         resp.SlotID,
		ExperienceName: resp.ExperienceName,
		Date:           resp.Date,
		Time:           resp.Time,
		FullName:       resp.FullName,
		Email:          resp.Email,
		Quantity:       resp.Quantity,
		PromoCode:      resp.PromoCode,
		Subtotal:       models.Money(resp.Subtotal),
		Discount:       models.Money(resp.Discount),
		Taxes:          models.Money(resp.Taxes),
		Total:          models.Money(resp.Total),
		DisplayTotal:   models.Display(resp.Total),
		Status:         resp.Status,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
