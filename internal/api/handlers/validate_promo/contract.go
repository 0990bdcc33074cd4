package validate_promo

import (
	validatePromo "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/validate_promo"
)

type ValidatePromoUseCase interface {
	Execute(req *validatePromo.Request) (*validatePromo.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
