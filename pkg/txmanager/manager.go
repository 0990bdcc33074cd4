// Package txmanager управляет транзакциями PostgreSQL
// Транзакция передается репозиториям через context (см. dbmetrics.WithTx)
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ExperienceBookingService/pkg/dbmetrics"
)

const (
	DefaultMaxAttempts = 1
	DefaultBaseBackoff = 50 * time.Millisecond
)

var (
	ErrBeginTx            = errors.New("txmanager: failed to begin transaction")
	ErrCommitTx           = errors.New("txmanager: failed to commit transaction")
	ErrMaxRetriesExceeded = errors.New("txmanager: transaction failed after max retries")
)

// Beginner источник транзакций (*dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TransactionManager выполняет функцию в транзакции
// При ошибке, панике или отмене контекста транзакция откатывается
// Ошибки сериализации (40001) и deadlock (40P01) повторяются, если задан WithRetry
type TransactionManager struct {
	db          Beginner
	logger      Logger
	maxAttempts int
	baseBackoff time.Duration
}

type Option func(*TransactionManager)

// WithRetry задает число попыток и базовую задержку между ними
func WithRetry(maxAttempts int, baseBackoff time.Duration) Option {
	return func(m *TransactionManager) {
		if maxAttempts > 0 {
			m.maxAttempts = maxAttempts
		}
		if baseBackoff >= 0 {
			m.baseBackoff = baseBackoff
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(m *TransactionManager) {
		m.logger = logger
	}
}

func NewTransactionManager(db Beginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:          db,
		maxAttempts: DefaultMaxAttempts,
		baseBackoff: DefaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		err = m.runOnce(ctx, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		if attempt == m.maxAttempts {
			break
		}

		wait := m.baseBackoff * time.Duration(1<<(attempt-1))
		m.logWarn("txmanager: retrying transaction (attempt %d/%d, wait %s): %v", attempt, m.maxAttempts, wait, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	m.logError("txmanager: transaction failed after %d attempts: %v", m.maxAttempts, err)
	return fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			m.logWarn("txmanager: rollback failed: %v", rbErr)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}
	committed = true
	return nil
}

// IsRetryable сообщает, можно ли повторить транзакцию после ошибки
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01":
		return true
	default:
		return false
	}
}

func (m *TransactionManager) logWarn(format string, v ...interface{}) {
	if m.logger != nil {
		m.logger.Warn(format, v...)
	}
}

func (m *TransactionManager) logError(format string, v ...interface{}) {
	if m.logger != nil {
		m.logger.Error(format, v...)
	}
}
