package reserve_slot

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("reserve_slot: invalid input data")

	// ErrNotFound общая ошибка для отсутствующего впечатления или слота
	ErrNotFound = errors.New("reserve_slot: not found")

	// ErrExperienceNotFound возвращается, когда впечатление не найдено
	ErrExperienceNotFound = fmt.Errorf("%w: experience", ErrNotFound)

	// ErrSlotNotFound возвращается, когда слот не найден или принадлежит другому впечатлению
	ErrSlotNotFound = fmt.Errorf("%w: slot", ErrNotFound)

	// ErrInsufficientCapacity возвращается, когда свободных мест меньше запрошенного
	ErrInsufficientCapacity = errors.New("reserve_slot: insufficient capacity")

	// ErrBookingFailed возвращается при сбое записи, транзакция откатывается
	ErrBookingFailed = errors.New("reserve_slot: booking failed")
)

// InsufficientCapacityError несет фактический остаток мест
type InsufficientCapacityError struct {
	Available int
	Requested int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("%s: requested %d, available %d", ErrInsufficientCapacity, e.Requested, e.Available)
}

func (e *InsufficientCapacityError) Is(target error) bool {
	return target == ErrInsufficientCapacity
}
