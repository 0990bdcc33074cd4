package catalog

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// ExperienceRepository интерфейс репозитория каталога
type ExperienceRepository interface {
	List(ctx context.Context) ([]*domain.Experience, error)
}

// ExperienceCache интерфейс кеша списка впечатлений
type ExperienceCache interface {
	GetList(ctx context.Context) ([]*domain.Experience, bool, error)
	SetList(ctx context.Context, list []*domain.Experience) error
}

// Metrics интерфейс метрик кеша
type Metrics interface {
	ObserveCatalogCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
