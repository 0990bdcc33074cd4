package events

import (
	"time"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// EventType тип события бронирования
type EventType string

const (
	BookingConfirmed EventType = "booking.confirmed"
	BookingCancelled EventType = "booking.cancelled"
)

// BookingEvent событие, публикуемое после фиксации транзакции
type BookingEvent struct {
	Type         EventType `json:"type"`
	BookingRef   string    `json:"bookingRef"`
	ExperienceID string    `json:"experienceId"`
	SlotID       string    `json:"slotId"`
	Email        string    `json:"email"`
	Quantity     int       `json:"quantity"`
	Total        string    `json:"total"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// NewBookingEvent строит событие из бронирования
func NewBookingEvent(eventType EventType, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:         eventType,
		BookingRef:   b.BookingRef,
		ExperienceID: b.ExperienceID.String(),
		SlotID:       b.SlotID.String(),
		Email:        b.Email,
		Quantity:     b.Quantity,
		Total:        b.Total.StringFixed(domain.MoneyScale),
		Status:       string(b.Status),
		OccurredAt:   at.UTC(),
	}
}

// RoutingKey ключ маршрутизации, совпадает с типом события
func (e BookingEvent) RoutingKey() string {
	return string(e.Type)
}
