package pricing

import "errors"

var (
	// ErrInvalidQuantity возвращается, когда количество мест меньше 1
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")

	// ErrNegativePrice возвращается при отрицательной цене за место
	ErrNegativePrice = errors.New("pricing: unit price must not be negative")
)
