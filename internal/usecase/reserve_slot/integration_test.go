//go:build integration

package reserve_slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/booking"
	experienceRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/experience"
	slotRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
	"github.com/m04kA/SMC-ExperienceBookingService/migrations"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBookingService/pkg/txmanager"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgDB       = "booking_test"
)

// startPostgres поднимает PostgreSQL в контейнере и применяет миграции
func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDB,
			},
			Cmd: []string{"postgres", "-c", "fsync=off", "-c", "max_connections=200"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), pgUser, pgPassword, pgDB)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(60)
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, migrations.Up(db))

	return db
}

type pgEnv struct {
	db       *sql.DB
	uc       *UseCase
	bookings *bookings.Service
	exps     *experienceRepo.Repository
	slots    *slotRepo.Repository
}

func newPGEnv(t *testing.T) *pgEnv {
	sqlDB := startPostgres(t)
	db := dbmetrics.Wrap(sqlDB, nil)

	txManager := txmanager.NewTransactionManager(db)
	exps := experienceRepo.NewRepository(db)
	slots := slotRepo.NewRepository(db)
	svc := bookings.NewService(bookingRepo.NewRepository(db), slots, txManager, events.NoopPublisher{}, 5, nopLogger{})

	uc := NewUseCase(
		exps,
		slots,
		svc,
		promo.NewResolver(promo.DefaultRegistry()),
		pricing.NewCalculator(),
		txManager,
		events.NoopPublisher{},
		nil,
		Config{MaxQuantity: 10, Timeout: 10 * time.Second},
		nopLogger{},
	)

	return &pgEnv{db: sqlDB, uc: uc, bookings: svc, exps: exps, slots: slots}
}

func (e *pgEnv) seedSlot(t *testing.T, price string, total int) (*domain.Experience, *domain.Slot) {
	t.Helper()
	ctx := context.Background()

	exp, err := e.exps.Create(ctx, &domain.Experience{
		Name:     "Kayaking",
		Location: "Udupi",
		Price:    decimal.RequireFromString(price),
	})
	require.NoError(t, err)

	slot, err := e.slots.Create(ctx, &domain.Slot{
		ExperienceID:   exp.ID,
		Date:           time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC),
		Time:           "07:00 am",
		TotalSpots:     total,
		AvailableSpots: total,
	})
	require.NoError(t, err)

	return exp, slot
}

func (e *pgEnv) available(t *testing.T, slotID uuid.UUID) int {
	t.Helper()

	var n int
	require.NoError(t, e.db.QueryRow(`SELECT available_spots FROM slots WHERE id = $1`, slotID).Scan(&n))
	return n
}

func (e *pgEnv) bookingCount(t *testing.T, slotID uuid.UUID) int {
	t.Helper()

	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COALESCE(SUM(quantity), 0) FROM bookings WHERE slot_id = $1 AND status = 'confirmed'`, slotID).Scan(&n))
	return n
}

func TestPostgres_ConcurrentReservationsNeverOversell(t *testing.T) {
	env := newPGEnv(t)
	exp, slot := env.seedSlot(t, "999", 7)

	const callers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
		rejected  int
		others    []error
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := env.uc.Execute(context.Background(), &Request{
				ExperienceID: exp.ID.String(),
				SlotID:       slot.ID.String(),
				FullName:     "Guest Number",
				Email:        fmt.Sprintf("guest%d@example.com", i),
				Quantity:     1,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				confirmed++
			case errors.Is(err, ErrInsufficientCapacity):
				rejected++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 7, confirmed)
	assert.Equal(t, callers-7, rejected)
	assert.Equal(t, 0, env.available(t, slot.ID))
	assert.Equal(t, 7, env.bookingCount(t, slot.ID))
}

func TestPostgres_ScenarioPricingAndCancel(t *testing.T) {
	env := newPGEnv(t)
	exp, slot := env.seedSlot(t, "999", 10)
	ctx := context.Background()

	resp, err := env.uc.Execute(ctx, &Request{
		ExperienceID: exp.ID.String(),
		SlotID:       slot.ID.String(),
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		Quantity:     2,
		PromoCode:    "save10",
	})
	require.NoError(t, err)

	assert.Equal(t, "1888.11", resp.Total.StringFixed(2))
	assert.Equal(t, 8, env.available(t, slot.ID))

	stored, err := env.bookings.GetByRef(ctx, resp.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, "1888.11", stored.Total)
	require.NotNil(t, stored.PromoCode)
	assert.Equal(t, "SAVE10", *stored.PromoCode)

	cancelled, err := env.bookings.Cancel(ctx, resp.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	assert.Equal(t, 10, env.available(t, slot.ID))

	_, err = env.bookings.Cancel(ctx, resp.BookingRef)
	assert.ErrorIs(t, err, bookings.ErrCannotCancel)
	assert.Equal(t, 10, env.available(t, slot.ID))
}

func TestPostgres_CheckConstraintBacksInventory(t *testing.T) {
	env := newPGEnv(t)
	_, slot := env.seedSlot(t, "999", 3)

	_, err := env.db.Exec(`UPDATE slots SET available_spots = -1 WHERE id = $1`, slot.ID)
	require.Error(t, err)

	assert.Equal(t, 3, env.available(t, slot.ID))
}
