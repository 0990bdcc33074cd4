package list_bookings

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListByEmail(ctx context.Context, req *models.GetBookingsByEmailRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
