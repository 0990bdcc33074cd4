package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Booking is an immutable record of a confirmed reservation.
// Money fields carry exactly two fractional digits.
type Booking struct {
	ID           uuid.UUID
	ExperienceID uuid.UUID
	SlotID       uuid.UUID
	FullName     string
	Email        string
	Quantity     int
	PromoCode    *string // resolved code, upper-case; nil when none applied
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Taxes        decimal.Decimal
	Total        decimal.Decimal
	BookingRef   string
	Status       BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
