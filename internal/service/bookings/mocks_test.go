package bookings

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, b)
	switch v := args.Get(0).(type) {
	case func(context.Context, *domain.Booking) *domain.Booking:
		return v(ctx, b), args.Error(1)
	case *domain.Booking:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if v := args.Get(0); v != nil {
		return v.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) GetByEmail(ctx context.Context, email string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, email, status)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockSlotRepo struct{ mock.Mock }

func (m *mockSlotRepo) Release(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, id, quantity)
	return args.Int(0), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

// passthroughTx выполняет fn без реальной транзакции
type passthroughTx struct{ calls int }

func (p *passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// seqRefs выдает коды по порядку
type seqRefs struct {
	refs []string
	i    int
}

func (s *seqRefs) Generate() (string, error) {
	ref := s.refs[s.i%len(s.refs)]
	s.i++
	return ref, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
