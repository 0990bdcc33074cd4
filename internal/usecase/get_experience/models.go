package get_experience

import "github.com/m04kA/SMC-ExperienceBookingService/internal/domain"

// Request модель запроса карточки впечатления
type Request struct {
	ExperienceID string // UUID впечатления
}

// Response карточка впечатления со свободными слотами
type Response struct {
	Experience *domain.Experience
	Slots      []Slot
}

// Slot слот со свободными местами
type Slot struct {
	ID             string
	Date           string // YYYY-MM-DD
	Time           string // свободный текст, например "07:00 am"
	AvailableSpots int
	TotalSpots     int
}
