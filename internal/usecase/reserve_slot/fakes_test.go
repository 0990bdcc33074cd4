package reserve_slot

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	experienceRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/experience"
	slotRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
)

// memStore хранилище в памяти; транзакция держит mu целиком,
// а при ошибке состояние откатывается к снимку
type memStore struct {
	mu          sync.Mutex
	experiences map[uuid.UUID]*domain.Experience
	slots       map[uuid.UUID]*domain.Slot
	bookings    []*domain.Booking
	seq         int

	reserveErr error
	recordErr  error
}

func newMemStore() *memStore {
	return &memStore{
		experiences: make(map[uuid.UUID]*domain.Experience),
		slots:       make(map[uuid.UUID]*domain.Slot),
	}
}

func (s *memStore) addSlot(exp *domain.Experience, total, available int) *domain.Slot {
	s.experiences[exp.ID] = exp
	slot := &domain.Slot{
		ID:             uuid.New(),
		ExperienceID:   exp.ID,
		Time:           "07:00 am",
		TotalSpots:     total,
		AvailableSpots: available,
	}
	s.slots[slot.ID] = slot
	return slot
}

func (s *memStore) available(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id].AvailableSpots
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// Do выполняет fn под блокировкой и откатывает изменения при ошибке
func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make(map[uuid.UUID]domain.Slot, len(s.slots))
	for id, slot := range s.slots {
		slots[id] = *slot
	}
	bookings := len(s.bookings)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
		if err != nil {
			for id, slot := range slots {
				restored := slot
				s.slots[id] = &restored
			}
			s.bookings = s.bookings[:bookings]
		}
	}()

	return fn(ctx)
}

type memExperiences struct{ s *memStore }

func (r memExperiences) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experience, error) {
	exp, ok := r.s.experiences[id]
	if !ok {
		return nil, experienceRepo.ErrExperienceNotFound
	}
	return exp, nil
}

type memSlots struct{ s *memStore }

func (r memSlots) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (r memSlots) Reserve(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	if r.s.reserveErr != nil {
		return 0, r.s.reserveErr
	}
	slot, ok := r.s.slots[id]
	if !ok {
		return 0, slotRepo.ErrSlotNotFound
	}
	if slot.AvailableSpots < quantity {
		return 0, &slotRepo.InsufficientCapacityError{Available: slot.AvailableSpots, Requested: quantity}
	}
	slot.AvailableSpots -= quantity
	return slot.AvailableSpots, nil
}

type memLedger struct{ s *memStore }

func (l memLedger) Record(ctx context.Context, draft *domain.Booking) (*domain.Booking, error) {
	if l.s.recordErr != nil {
		return nil, l.s.recordErr
	}
	l.s.seq++
	draft.ID = uuid.New()
	draft.BookingRef = fmt.Sprintf("HUF%08d", l.s.seq)
	l.s.bookings = append(l.s.bookings, draft)
	return draft, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type recordingMetrics struct {
	mu           sync.Mutex
	reservations map[string]int
	spots        int
	promos       map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{reservations: map[string]int{}, promos: map[string]int{}}
}

func (m *recordingMetrics) ObserveReservation(outcome string, spots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[outcome]++
	m.spots += spots
}

func (m *recordingMetrics) ObservePromoLookup(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos[result]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
