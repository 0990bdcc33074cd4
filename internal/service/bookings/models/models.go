package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetBookingsByEmailRequest запрос на получение бронирований по email
type GetBookingsByEmailRequest struct {
	Email  string  `json:"email"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
// Денежные поля точные (2 знака), DisplayTotal округлен до целого для показа
type BookingResponse struct {
	BookingRef   string  `json:"bookingRef"`
	ExperienceID string  `json:"experienceId"`
	SlotID       string  `json:"slotId"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Quantity     int     `json:"quantity"`
	PromoCode    *string `json:"promoCode,omitempty"`
	Subtotal     string  `json:"subtotal"`
	Discount     string  `json:"discount"`
	Taxes        string  `json:"taxes"`
	Total        string  `json:"total"`
	DisplayTotal int64   `json:"displayTotal"`
	Status       string  `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// Money форматирует сумму с двумя знаками после запятой
func Money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}

// Display округляет сумму до целого для показа
func Display(d decimal.Decimal) int64 {
	return pricing.RoundForDisplay(d).IntPart()
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		BookingRef:   b.BookingRef,
		ExperienceID: b.ExperienceID.String(),
		SlotID:       b.SlotID.String(),
		FullName:     b.FullName,
		Email:        b.Email,
		Quantity:     b.Quantity,
		PromoCode:    b.PromoCode,
		Subtotal:     Money(b.Subtotal),
		Discount:     Money(b.Discount),
		Taxes:        Money(b.Taxes),
		Total:        Money(b.Total),
		DisplayTotal: Display(b.Total),
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
