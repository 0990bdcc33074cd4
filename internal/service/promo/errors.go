package promo

import "errors"

var (
	// ErrPromoNotFound возвращается для неизвестного промокода
	// Для бронирования это не ошибка: скидка просто равна нулю
	ErrPromoNotFound = errors.New("promo: promo code not found")

	// ErrInvalidRegistry возвращается при некорректной конфигурации промокодов
	ErrInvalidRegistry = errors.New("promo: invalid promo registry")

	// ErrNegativeSubtotal возвращается при отрицательной сумме заказа
	ErrNegativeSubtotal = errors.New("promo: subtotal must not be negative")
)
