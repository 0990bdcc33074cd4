package promo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Registry неизменяемый набор правил промокодов, ключ - нормализованный код
type Registry struct {
	rules map[string]domain.PromoRule
}

// NewRegistry проверяет правила и строит реестр
func NewRegistry(rules []domain.PromoRule) (*Registry, error) {
	r := &Registry{rules: make(map[string]domain.PromoRule, len(rules))}

	for i, rule := range rules {
		code := domain.NormalizePromoCode(rule.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: rule #%d has empty code", ErrInvalidRegistry, i)
		}
		if len(code) > domain.MaxPromoCodeLength {
			return nil, fmt.Errorf("%w: code %s is longer than %d", ErrInvalidRegistry, code, domain.MaxPromoCodeLength)
		}
		if _, exists := r.rules[code]; exists {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidRegistry, code)
		}
		if !rule.Type.IsValid() {
			return nil, fmt.Errorf("%w: code %s has unknown type %q", ErrInvalidRegistry, code, rule.Type)
		}
		if !rule.Value.IsPositive() {
			return nil, fmt.Errorf("%w: code %s must have a positive value", ErrInvalidRegistry, code)
		}
		if rule.Type == domain.PromoPercentage && rule.Value.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: code %s percentage is above 100", ErrInvalidRegistry, code)
		}

		rule.Code = code
		r.rules[code] = rule
	}

	return r, nil
}

// MustNewRegistry как NewRegistry, но паникует при ошибке
func MustNewRegistry(rules []domain.PromoRule) *Registry {
	r, err := NewRegistry(rules)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry реестр со встроенными промокодами
func DefaultRegistry() *Registry {
	return MustNewRegistry(domain.DefaultPromoRules())
}

// Lookup ищет правило без учета регистра
func (r *Registry) Lookup(code string) (domain.PromoRule, bool) {
	rule, ok := r.rules[domain.NormalizePromoCode(code)]
	return rule, ok
}

// Len возвращает количество промокодов
func (r *Registry) Len() int {
	return len(r.rules)
}
