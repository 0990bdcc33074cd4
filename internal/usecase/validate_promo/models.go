package validate_promo

import "github.com/shopspring/decimal"

// Request модель запроса на проверку промокода
type Request struct {
	Code     string
	Subtotal decimal.Decimal
}

// Response найденное правило и рассчитанная скидка
type Response struct {
	Code     string // в верхнем регистре
	Type     string // percentage | flat
	Value    decimal.Decimal
	Discount decimal.Decimal // округлена до 2 знаков
}
