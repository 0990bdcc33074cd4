package list_experiences

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	ListExperiences(ctx context.Context) (*models.ExperienceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
