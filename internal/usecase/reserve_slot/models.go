package reserve_slot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на бронирование мест в слоте
type Request struct {
	ExperienceID string // UUID впечатления
	SlotID       string // UUID слота
	FullName     string // Имя гостя
	Email        string // Email гостя
	Quantity     int    // Количество мест
	PromoCode    string // Промокод (опционально)
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	BookingRef     string
	ExperienceID   string
	SlotID         string
	ExperienceName string
	Date           string // YYYY-MM-DD
	Time           string // как в слоте, например "07:00 am"
	FullName       string
	Email          string
	Quantity       int

	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Taxes     decimal.Decimal
	Total     decimal.Decimal
	PromoCode *string // примененный код; nil если не указан или не найден

	Status    string
	CreatedAt time.Time
}

// Исходы бронирования для метрик
const (
	outcomeConfirmed          = "confirmed"
	outcomeRejectedValidation = "rejected_validation"
	outcomeRejectedCapacity   = "rejected_capacity"
	outcomeNotFound           = "not_found"
	outcomeFailed             = "failed"
)
