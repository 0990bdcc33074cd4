package reserve_slot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
)

// ExperienceRepository интерфейс репозитория каталога
type ExperienceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error)
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	Reserve(ctx context.Context, id uuid.UUID, quantity int) (int, error)
}

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	Record(ctx context.Context, draft *domain.Booking) (*domain.Booking, error)
}

// PromoResolver интерфейс резолвера промокодов
type PromoResolver interface {
	Resolve(code string, subtotal decimal.Decimal) (*promo.Resolution, error)
}

// PriceCalculator интерфейс калькулятора цены
type PriceCalculator interface {
	Subtotal(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error)
	Price(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) (pricing.Breakdown, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс издателя событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// Metrics интерфейс метрик бронирований
type Metrics interface {
	ObserveReservation(outcome string, spots int)
	ObservePromoLookup(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
