// Package pricing рассчитывает стоимость бронирования
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// Breakdown разбивка стоимости бронирования
// Все суммы округлены до domain.MoneyScale знаков
type Breakdown struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Taxes    decimal.Decimal
	Total    decimal.Decimal
}

// Calculator калькулятор стоимости
// Чистая функция без состояния, безопасна для конкурентного использования
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator создает калькулятор со ставкой налога domain.TaxRate
func NewCalculator() *Calculator {
	return &Calculator{taxRate: domain.TaxRate}
}

// Subtotal = unitPrice * quantity
func (c *Calculator) Subtotal(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity < domain.MinQuantity {
		return decimal.Zero, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// Price рассчитывает разбивку стоимости:
//
//	subtotal = unitPrice * quantity
//	taxes    = (subtotal - discount) * taxRate
//	total    = subtotal - discount + taxes
//
// Скидка не ограничивается (ограничение flat-скидки выполняет promo.Resolver).
// Скидка и налог округляются до сложения, поэтому сохраненная разбивка
// всегда сходится: total == subtotal - discount + taxes.
func (c *Calculator) Price(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) (Breakdown, error) {
	subtotal, err := c.Subtotal(unitPrice, quantity)
	if err != nil {
		return Breakdown{}, err
	}

	subtotal = RoundMoney(subtotal)
	discount = RoundMoney(discount)

	discounted := subtotal.Sub(discount)
	taxes := RoundMoney(discounted.Mul(c.taxRate))

	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Taxes:    taxes,
		Total:    discounted.Add(taxes),
	}, nil
}

// RoundMoney округляет сумму до domain.MoneyScale знаков (половина - от нуля)
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(domain.MoneyScale)
}

// RoundForDisplay округляет сумму до целых единиц
func RoundForDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
