package validate_promo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
)

// UseCase use case для проверки промокода перед оплатой
type UseCase struct {
	resolver PromoResolver
	metrics  Metrics
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(resolver PromoResolver, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute проверяет промокод и считает скидку для суммы заказа
func (uc *UseCase) Execute(req *Request) (*Response, error) {
	code := strings.TrimSpace(req.Code)
	uc.logger.Info("ValidatePromo: code=%q, subtotal=%s", code, req.Subtotal)

	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if len(code) > domain.MaxPromoCodeLength {
		return nil, fmt.Errorf("%w: code must not exceed %d characters", ErrInvalidInput, domain.MaxPromoCodeLength)
	}
	if req.Subtotal.IsNegative() {
		return nil, fmt.Errorf("%w: subtotal must not be negative", ErrInvalidInput)
	}

	resolution, err := uc.resolver.Resolve(code, req.Subtotal)
	if err != nil {
		if errors.Is(err, promo.ErrPromoNotFound) {
			uc.logger.Warn("ValidatePromo: code=%q not found", code)
			uc.observe(promo.LookupNotFound)
			return nil, ErrPromoNotFound
		}
		if errors.Is(err, promo.ErrNegativeSubtotal) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ValidatePromo: failed to resolve code=%q: %v", code, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.observe(promo.LookupApplied)
	uc.logger.Info("ValidatePromo: code=%s valid, discount=%s", resolution.Rule.Code, resolution.Discount)

	return &Response{
		Code:     resolution.Rule.Code,
		Type:     string(resolution.Rule.Type),
		Value:    resolution.Rule.Value,
		Discount: pricing.RoundMoney(resolution.Discount),
	}, nil
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObservePromoLookup(result)
	}
}
