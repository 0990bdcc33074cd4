package get_experience

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// ExperienceRepository интерфейс репозитория каталога
type ExperienceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error)
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	ListAvailableByExperience(ctx context.Context, experienceID uuid.UUID) ([]*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
