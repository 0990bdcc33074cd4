// Package promo разрешает промокоды в сумму скидки
package promo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// Resolution результат применения промокода
type Resolution struct {
	Rule     domain.PromoRule
	Discount decimal.Decimal
}

// Результаты поиска промокода для метрики promo_lookups_total
const (
	LookupApplied  = "applied"
	LookupNotFound = "not_found"
)

// Resolver без состояния, безопасен для конкурентного использования
type Resolver struct {
	registry *Registry
}

// NewResolver создает резолвер поверх переданного реестра
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve рассчитывает скидку для кода и суммы заказа
//
//	percentage: discount = subtotal * value / 100
//	flat:       discount = min(value, subtotal)
//
// Для неизвестного кода возвращает ErrPromoNotFound
func (r *Resolver) Resolve(code string, subtotal decimal.Decimal) (*Resolution, error) {
	if subtotal.IsNegative() {
		return nil, ErrNegativeSubtotal
	}

	rule, ok := r.registry.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPromoNotFound, domain.NormalizePromoCode(code))
	}

	var discount decimal.Decimal
	switch rule.Type {
	case domain.PromoPercentage:
		discount = subtotal.Mul(rule.Value).Div(hundred)
	case domain.PromoFlat:
		discount = decimal.Min(rule.Value, subtotal)
	}

	return &Resolution{Rule: rule, Discount: discount}, nil
}
