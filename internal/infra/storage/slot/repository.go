package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"experience_id",
	"date",
	"time",
	"total_spots",
	"available_spots",
	"created_at",
	"updated_at",
}

// Repository хранилище слотов и их вместимости
// available_spots меняется только через Reserve и Release
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет слот со всеми свободными местами, если AvailableSpots не задан
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("slots").
		Columns("id", "experience_id", "date", "time", "total_spots", "available_spots").
		Values(slot.ID, slot.ExperienceID, slot.Date, slot.Time, slot.TotalSpots, slot.AvailableSpots).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.CreatedAt, &slot.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE): параллельные бронирования
// одного слота выполняются последовательно, разные слоты не мешают друг другу
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// ListAvailableByExperience возвращает слоты впечатления со свободными местами
// Время - свободный текст, поэтому сортировка по нему строковая
func (r *Repository) ListAvailableByExperience(ctx context.Context, experienceID uuid.UUID) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("slots").
		Where(squirrel.Eq{"experience_id": experienceID}).
		Where(squirrel.Gt{"available_spots": 0}).
		OrderBy("date ASC", "time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailableByExperience - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailableByExperience - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAvailableByExperience - scan slot: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailableByExperience - rows iteration: %w", ErrScanRow, err)
	}

	return slots, nil
}

// Reserve атомарно уменьшает available_spots на quantity и возвращает остаток
// Проверка и списание выполняются одним UPDATE с условием available_spots >= quantity,
// поэтому счетчик не уходит в минус даже без предварительной блокировки
func (r *Repository) Reserve(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	if quantity < domain.MinQuantity {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available_spots", squirrel.Expr("available_spots - ?", quantity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"available_spots": quantity}).
		Suffix("RETURNING available_spots").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	var remaining int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		// Условие не выполнилось: слота нет или мест недостаточно
		available, getErr := r.availableSpots(ctx, id)
		if getErr != nil {
			return 0, getErr
		}
		return 0, &InsufficientCapacityError{Available: available, Requested: quantity}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - execute update: %w", ErrExecQuery, err)
	}

	return remaining, nil
}

// Release возвращает quantity мест в слот (отмена бронирования)
// available_spots никогда не превышает total_spots
func (r *Repository) Release(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	if quantity < domain.MinQuantity {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available_spots", squirrel.Expr("available_spots + ?", quantity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("available_spots + ? <= total_spots", quantity)).
		Suffix("RETURNING available_spots").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	var available int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.availableSpots(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, fmt.Errorf("%w: slot %s, quantity %d", ErrReleaseExceedsCapacity, id, quantity)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	return available, nil
}

// availableSpots читает текущий остаток мест без блокировки
func (r *Repository) availableSpots(ctx context.Context, id uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("available_spots").
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: availableSpots - build select query: %v", ErrBuildQuery, err)
	}

	var available int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSlotNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: availableSpots - scan: %w", ErrScanRow, err)
	}

	return available, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row scanner) (*domain.Slot, error) {
	var slot domain.Slot

	err := row.Scan(
		&slot.ID,
		&slot.ExperienceID,
		&slot.Date,
		&slot.Time,
		&slot.TotalSpots,
		&slot.AvailableSpots,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}
