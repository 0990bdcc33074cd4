package slot

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrInsufficientCapacity возвращается, когда свободных мест меньше запрошенного
	// Конкретное значение доступно через *InsufficientCapacityError
	ErrInsufficientCapacity = errors.New("slot.repository: insufficient capacity")

	// ErrReleaseExceedsCapacity возвращается, когда возврат мест превысил бы total_spots
	ErrReleaseExceedsCapacity = errors.New("slot.repository: release exceeds total spots")

	// ErrInvalidQuantity возвращается при количестве мест меньше 1
	ErrInvalidQuantity = errors.New("slot.repository: quantity must be at least 1")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)

// InsufficientCapacityError несёт текущее количество свободных мест
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
