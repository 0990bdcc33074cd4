package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
)

// BookingRepository интерфейс журнала бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByRef(ctx context.Context, bookingRef string) (*domain.Booking, error)
	GetByEmail(ctx context.Context, email string, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}

// SlotRepository интерфейс хранилища слотов (только возврат мест)
type SlotRepository interface {
	Release(ctx context.Context, id uuid.UUID, quantity int) (int, error)
}

// RefGenerator генерирует коды бронирований
type RefGenerator interface {
	Generate() (string, error)
}

// EventPublisher интерфейс издателя событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
