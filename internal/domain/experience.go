package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Experience is a bookable activity with a per-person price
type Experience struct {
	ID          uuid.UUID
	Name        string
	Location    string
	Description string
	ImageURL    *string
	Price       decimal.Decimal // per person, >= 0
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
