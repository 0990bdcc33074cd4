package reserve_slot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type env struct {
	store     *memStore
	exp       *domain.Experience
	publisher *recordingPublisher
	metrics   *recordingMetrics
	uc        *UseCase
}

func newEnv(price string) *env {
	store := newMemStore()
	e := &env{
		store:     store,
		exp:       &domain.Experience{ID: uuid.New(), Name: "Kayaking", Location: "Udupi", Price: decimal.RequireFromString(price)},
		publisher: &recordingPublisher{},
		metrics:   newRecordingMetrics(),
	}
	e.uc = NewUseCase(
		memExperiences{store},
		memSlots{store},
		memLedger{store},
		promo.NewResolver(promo.DefaultRegistry()),
		pricing.NewCalculator(),
		store,
		e.publisher,
		e.metrics,
		Config{MaxQuantity: 10, Timeout: time.Second},
		nopLogger{},
	)
	e.uc.timeProvider = fixedTime{t: time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)}
	return e
}

func (e *env) request(slot *domain.Slot, quantity int, code string) *Request {
	return &Request{
		ExperienceID: e.exp.ID.String(),
		SlotID:       slot.ID.String(),
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		Quantity:     quantity,
		PromoCode:    code,
	}
}

func TestExecute_ReserveLastSpotsThenReject(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 2)

	resp, err := e.uc.Execute(context.Background(), e.request(slot, 2, ""))
	require.NoError(t, err)

	assert.Equal(t, 0, e.store.available(slot.ID))
	assert.Equal(t, "Kayaking", resp.ExperienceName)
	assert.Equal(t, "07:00 am", resp.Time)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Nil(t, resp.PromoCode)
	assert.Equal(t, "2097.90", resp.Total.StringFixed(2))

	_, err = e.uc.Execute(context.Background(), e.request(slot, 1, ""))
	require.ErrorIs(t, err, ErrInsufficientCapacity)

	var capErr *InsufficientCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Available)
	assert.Equal(t, 1, capErr.Requested)

	assert.Equal(t, 0, e.store.available(slot.ID))
	assert.Equal(t, 1, e.store.bookingCount())
	assert.Equal(t, 1, e.metrics.reservations[outcomeConfirmed])
	assert.Equal(t, 1, e.metrics.reservations[outcomeRejectedCapacity])
	assert.Equal(t, 2, e.metrics.spots)
}

func TestExecute_PromoPricing(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)

	resp, err := e.uc.Execute(context.Background(), e.request(slot, 2, " save10 "))
	require.NoError(t, err)

	assert.Equal(t, "1998.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "199.80", resp.Discount.StringFixed(2))
	assert.Equal(t, "89.91", resp.Taxes.StringFixed(2))
	assert.Equal(t, "1888.11", resp.Total.StringFixed(2))
	require.NotNil(t, resp.PromoCode)
	assert.Equal(t, "SAVE10", *resp.PromoCode)
	assert.Equal(t, 1, e.metrics.promos[promo.LookupApplied])
}

func TestExecute_StoredBreakdownAddsUp(t *testing.T) {
	prices := []string{"0.08", "0.22", "0.64", "19.99", "333.33", "1234.57", "4999.95"}
	codes := []string{"", "SAVE10", "WELCOME20", "FLAT100"}

	for _, price := range prices {
		for _, code := range codes {
			e := newEnv(price)
			slot := e.store.addSlot(e.exp, 10, 10)

			resp, err := e.uc.Execute(context.Background(), e.request(slot, 3, code))
			require.NoError(t, err, "price %s code %q", price, code)
			require.Equal(t, 1, e.store.bookingCount())

			stored := e.store.bookings[0]
			sum := stored.Subtotal.Sub(stored.Discount).Add(stored.Taxes)
			assert.True(t, sum.Equal(stored.Total),
				"price %s code %q: %s - %s + %s != %s", price, code, stored.Subtotal, stored.Discount, stored.Taxes, stored.Total)
			assert.True(t, stored.Total.Equal(pricing.RoundMoney(stored.Total)), "total %s not at cents", stored.Total)
			assert.True(t, resp.Total.Equal(stored.Total))
		}
	}
}

func TestExecute_NilRequest(t *testing.T) {
	e := newEnv("999")

	assert.NotPanics(t, func() {
		_, err := e.uc.Execute(context.Background(), nil)
		assert.ErrorIs(t, err, ErrValidation)
	})
	assert.Equal(t, 1, e.metrics.reservations[outcomeRejectedValidation])
}

func TestExecute_UnknownPromoProceedsWithoutDiscount(t *testing.T) {
	e := newEnv("500")
	slot := e.store.addSlot(e.exp, 10, 5)

	resp, err := e.uc.Execute(context.Background(), e.request(slot, 1, "BOGUS"))
	require.NoError(t, err)

	assert.True(t, resp.Discount.IsZero())
	assert.Nil(t, resp.PromoCode)
	assert.Equal(t, "525.00", resp.Total.StringFixed(2))
	assert.Equal(t, 4, e.store.available(slot.ID))
	assert.Equal(t, 1, e.metrics.promos[promo.LookupNotFound])
}

func TestExecute_FlatPromoNeverMakesTotalNegative(t *testing.T) {
	e := newEnv("50")
	slot := e.store.addSlot(e.exp, 10, 5)

	resp, err := e.uc.Execute(context.Background(), e.request(slot, 1, "FLAT100"))
	require.NoError(t, err)

	assert.True(t, resp.Discount.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.Total.IsZero())
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)
	other := e.store.addSlot(&domain.Experience{ID: uuid.New(), Name: "Other", Price: decimal.NewFromInt(1)}, 10, 5)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{
			name:    "unknown experience",
			mutate:  func(r *Request) { r.ExperienceID = uuid.NewString() },
			wantErr: ErrExperienceNotFound,
		},
		{
			name:    "unknown slot",
			mutate:  func(r *Request) { r.SlotID = uuid.NewString() },
			wantErr: ErrSlotNotFound,
		},
		{
			name:    "slot of another experience",
			mutate:  func(r *Request) { r.SlotID = other.ID.String() },
			wantErr: ErrSlotNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.request(slot, 1, "")
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}

	assert.Equal(t, 5, e.store.available(slot.ID))
	assert.Equal(t, 5, e.store.available(other.ID))
	assert.Zero(t, e.store.bookingCount())
}

func TestExecute_Validation(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"malformed experience id", func(r *Request) { r.ExperienceID = "exp-1" }},
		{"malformed slot id", func(r *Request) { r.SlotID = "" }},
		{"zero quantity", func(r *Request) { r.Quantity = 0 }},
		{"quantity above limit", func(r *Request) { r.Quantity = 11 }},
		{"short name", func(r *Request) { r.FullName = " A " }},
		{"missing email", func(r *Request) { r.Email = "" }},
		{"email without domain", func(r *Request) { r.Email = "asha@" }},
		{"email with display name", func(r *Request) { r.Email = "Asha <asha@example.com>" }},
		{"email without tld", func(r *Request) { r.Email = "asha@localhost" }},
		{"long promo code", func(r *Request) { r.PromoCode = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.request(slot, 1, "")
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Equal(t, 5, e.store.available(slot.ID))
	assert.Equal(t, len(tests), e.metrics.reservations[outcomeRejectedValidation])
}

func TestExecute_DecrementFailureRollsBackLedger(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)
	e.store.reserveErr = errors.New("disk full")

	_, err := e.uc.Execute(context.Background(), e.request(slot, 2, ""))
	require.ErrorIs(t, err, ErrBookingFailed)

	assert.Zero(t, e.store.bookingCount())
	assert.Equal(t, 5, e.store.available(slot.ID))
	assert.Empty(t, e.publisher.events)
	assert.Equal(t, 1, e.metrics.reservations[outcomeFailed])
}

func TestExecute_LedgerFailureLeavesInventoryUnchanged(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)
	e.store.recordErr = errors.New("booking reference generation exhausted")

	_, err := e.uc.Execute(context.Background(), e.request(slot, 2, ""))
	require.ErrorIs(t, err, ErrBookingFailed)

	assert.Equal(t, 5, e.store.available(slot.ID))
}

func TestExecute_PublishesConfirmedEvent(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)

	resp, err := e.uc.Execute(context.Background(), e.request(slot, 1, ""))
	require.NoError(t, err)

	require.Len(t, e.publisher.events, 1)
	event := e.publisher.events[0]
	assert.Equal(t, events.BookingConfirmed, event.Type)
	assert.Equal(t, resp.BookingRef, event.BookingRef)
	assert.Equal(t, "1048.95", event.Total)
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	e := newEnv("999")
	slot := e.store.addSlot(e.exp, 10, 5)
	e.publisher.err = errors.New("broker unavailable")

	_, err := e.uc.Execute(context.Background(), e.request(slot, 1, ""))
	require.NoError(t, err)
	assert.Equal(t, 4, e.store.available(slot.ID))
}

func TestExecute_ConcurrentReservationsNeverOversell(t *testing.T) {
	e := newEnv("999")
	const (
		attempts = 50
		spots    = 7
	)
	slot := e.store.addSlot(e.exp, 10, spots)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	start := make(chan struct{})
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			<-start

			_, err := e.uc.Execute(context.Background(), e.request(slot, 1, ""))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientCapacity):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, spots, succeeded)
	assert.Equal(t, attempts-spots, rejected)
	assert.Equal(t, 0, e.store.available(slot.ID))
	assert.Equal(t, spots, e.store.bookingCount())
}

func TestExecute_DifferentSlotsAreIndependent(t *testing.T) {
	e := newEnv("999")
	first := e.store.addSlot(e.exp, 10, 1)
	second := e.store.addSlot(e.exp, 10, 1)

	_, err := e.uc.Execute(context.Background(), e.request(first, 1, ""))
	require.NoError(t, err)
	_, err = e.uc.Execute(context.Background(), e.request(second, 1, ""))
	require.NoError(t, err)

	assert.Zero(t, e.store.available(first.ID))
	assert.Zero(t, e.store.available(second.ID))
}
