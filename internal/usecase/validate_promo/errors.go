package validate_promo

import "errors"

var (
	// ErrPromoNotFound возвращается для неизвестного промокода
	ErrPromoNotFound = errors.New("validate_promo: promo code not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_promo: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_promo: internal error")
)
