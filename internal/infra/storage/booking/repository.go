package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var columns = []string{
	"id",
	"experience_id",
	"slot_id",
	"full_name",
	"email",
	"quantity",
	"promo_code",
	"subtotal",
	"discount",
	"taxes",
	"total",
	"booking_ref",
	"status",
	"created_at",
	"updated_at",
}

// Repository журнал бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование
// ID и BookingRef заполняет вызывающий код. Если booking_ref уже занят,
// возвращается ErrDuplicateBookingRef, а транзакция остается рабочей:
// вставка идет через ON CONFLICT DO NOTHING, и можно повторить с новым кодом.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"experience_id",
			"slot_id",
			"full_name",
			"email",
			"quantity",
			"promo_code",
			"subtotal",
			"discount",
			"taxes",
			"total",
			"booking_ref",
			"status",
		).
		Values(
			booking.ID,
			booking.ExperienceID,
			booking.SlotID,
			booking.FullName,
			booking.Email,
			booking.Quantity,
			booking.PromoCode,
			booking.Subtotal,
			booking.Discount,
			booking.Taxes,
			booking.Total,
			booking.BookingRef,
			booking.Status,
		).
		Suffix("ON CONFLICT (booking_ref) DO NOTHING RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBookingRef, booking.BookingRef)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && strings.Contains(pqErr.Constraint, "booking_ref") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBookingRef, booking.BookingRef)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByRef получает бронирование по коду
// Внутри транзакции строка блокируется (FOR UPDATE) для смены статуса
func (r *Repository) GetByRef(ctx context.Context, bookingRef string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"booking_ref": bookingRef})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRef - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRef - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByEmail получает историю бронирований по email (без учета регистра), новые первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByEmail(ctx context.Context, email string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByEmail - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - rows iteration: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus меняет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var (
		booking   domain.Booking
		promoCode sql.NullString
		status    string
	)

	err := row.Scan(
		&booking.ID,
		&booking.ExperienceID,
		&booking.SlotID,
		&booking.FullName,
		&booking.Email,
		&booking.Quantity,
		&promoCode,
		&booking.Subtotal,
		&booking.Discount,
		&booking.Taxes,
		&booking.Total,
		&booking.BookingRef,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if promoCode.Valid {
		booking.PromoCode = &promoCode.String
	}
	booking.Status = domain.BookingStatus(status)

	return &booking, nil
}
