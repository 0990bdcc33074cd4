package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PromoType is the kind of discount a promo code grants
type PromoType string

const (
	PromoPercentage PromoType = "percentage"
	PromoFlat       PromoType = "flat"
)

// IsValid returns true for known promo types
func (t PromoType) IsValid() bool {
	return t == PromoPercentage || t == PromoFlat
}

// PromoRule maps a promo code to its discount rule.
// For PromoPercentage Value is a percent of the subtotal, for PromoFlat an absolute amount.
type PromoRule struct {
	Code  string
	Type  PromoType
	Value decimal.Decimal
}

// NormalizePromoCode trims and upper-cases a promo code for case-insensitive matching
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DefaultPromoRules is the registry used when none is configured
func DefaultPromoRules() []PromoRule {
	return []PromoRule{
		{Code: "SAVE10", Type: PromoPercentage, Value: decimal.NewFromInt(10)},
		{Code: "FLAT100", Type: PromoFlat, Value: decimal.NewFromInt(100)},
		{Code: "WELCOME20", Type: PromoPercentage, Value: decimal.NewFromInt(20)},
	}
}
