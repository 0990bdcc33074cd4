package domain

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a bookable date/time instance of an experience with finite capacity.
// Invariant: 0 <= AvailableSpots <= TotalSpots.
type Slot struct {
	ID             uuid.UUID
	ExperienceID   uuid.UUID
	Date           time.Time // calendar date, time part is ignored
	Time           string    // free-text label, e.g. "07:00 am"
	TotalSpots     int
	AvailableSpots int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCapacity returns true if the slot can take quantity more spots
func (s *Slot) HasCapacity(quantity int) bool {
	return quantity > 0 && s.AvailableSpots >= quantity
}

// DateString returns the slot date in DateFormat
func (s *Slot) DateString() string {
	return s.Date.Format(DateFormat)
}
