package validate_promo

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
)

// PromoResolver интерфейс резолвера промокодов
type PromoResolver interface {
	Resolve(code string, subtotal decimal.Decimal) (*promo.Resolution, error)
}

// Metrics интерфейс метрик промокодов
type Metrics interface {
	ObservePromoLookup(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
