package experience

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
	"name",
	"location",
	"description",
	"image_url",
	"price",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога впечатлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория впечатлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет впечатление (каталог наполняется миграциями и администрированием)
func (r *Repository) Create(ctx context.Context, exp *domain.Experience) (*domain.Experience, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("experiences").
		Columns("id", "name", "location", "description", "image_url", "price").
		Values(exp.ID, exp.Name, exp.Location, exp.Description, exp.ImageURL, exp.Price).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exp.CreatedAt, &exp.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return exp, nil
}

// GetByID получает впечатление по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("experiences").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	exp, err := scanExperience(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExperienceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan experience: %w", ErrScanRow, err)
	}

	return exp, nil
}

// List возвращает все впечатления, новые первыми
// Дубликаты (name, location) не схлопываются
func (r *Repository) List(ctx context.Context) ([]*domain.Experience, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("experiences").
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	experiences := make([]*domain.Experience, 0)
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan experience: %w", ErrScanRow, err)
		}
		experiences = append(experiences, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}

	return experiences, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExperience(row scanner) (*domain.Experience, error) {
	var (
		exp      domain.Experience
		imageURL sql.NullString
	)

	err := row.Scan(
		&exp.ID,
		&exp.Name,
		&exp.Location,
		&exp.Description,
		&imageURL,
		&exp.Price,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		exp.ImageURL = &imageURL.String
	}

	return &exp, nil
}
