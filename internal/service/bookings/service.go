package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings/models"
)

// Service журнал бронирований: выдача кодов, поиск и отмена
type Service struct {
	bookingRepo    BookingRepository
	slotRepo       SlotRepository
	txManager      TransactionManager
	publisher      EventPublisher
	refGen         RefGenerator
	maxRefAttempts int
	logger         Logger
	now            func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	maxRefAttempts int,
	logger Logger,
) *Service {
	if maxRefAttempts < 1 {
		maxRefAttempts = domain.DefaultMaxRefAttempts
	}

	return &Service{
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		txManager:      txManager,
		publisher:      publisher,
		refGen:         RandomRefGenerator{},
		maxRefAttempts: maxRefAttempts,
		logger:         logger,
		now:            time.Now,
	}
}

// WithRefGenerator подменяет генератор кодов
func (s *Service) WithRefGenerator(gen RefGenerator) *Service {
	s.refGen = gen
	return s
}

// Record сохраняет бронирование с новым уникальным кодом
// Вызывается внутри транзакции резервирования. При коллизии кода
// повторяет попытку с новым кодом, не более maxRefAttempts раз.
func (s *Service) Record(ctx context.Context, draft *domain.Booking) (*domain.Booking, error) {
	if draft == nil || draft.Quantity < domain.MinQuantity {
		return nil, fmt.Errorf("%w: Record - empty draft or invalid quantity", ErrInvalidInput)
	}

	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	if draft.Status == "" {
		draft.Status = domain.StatusConfirmed
	}

	for attempt := 1; attempt <= s.maxRefAttempts; attempt++ {
		ref, err := s.refGen.Generate()
		if err != nil {
			s.logger.Error("Record: failed to generate booking ref: %v", err)
			return nil, fmt.Errorf("%w: Record - generate ref: %v", ErrInternal, err)
		}
		draft.BookingRef = ref

		created, err := s.bookingRepo.Create(ctx, draft)
		if err == nil {
			s.logger.Info("Record: booking %s stored for slot=%s, quantity=%d", created.BookingRef, created.SlotID, created.Quantity)
			return created, nil
		}

		if errors.Is(err, bookingRepo.ErrDuplicateBookingRef) {
			s.logger.Warn("Record: booking ref %s already taken, attempt %d/%d", ref, attempt, s.maxRefAttempts)
			continue
		}

		s.logger.Error("Record: repository error for slot=%s: %v", draft.SlotID, err)
		return nil, fmt.Errorf("%w: Record - repository error: %w", ErrInternal, err)
	}

	s.logger.Error("Record: no free booking ref after %d attempts", s.maxRefAttempts)
	return nil, fmt.Errorf("%w: after %d attempts", ErrRefGenerationExhausted, s.maxRefAttempts)
}

// GetByRef получает бронирование по коду
func (s *Service) GetByRef(ctx context.Context, ref string) (*models.BookingResponse, error) {
	ref = NormalizeRef(ref)
	s.logger.Info("GetByRef: fetching booking ref=%s", ref)

	if !IsValidRef(ref) {
		s.logger.Warn("GetByRef: malformed booking ref=%s", ref)
		return nil, ErrBookingNotFound
	}

	booking, err := s.bookingRepo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByRef: booking ref=%s not found", ref)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByRef: repository error for booking ref=%s: %v", ref, err)
		return nil, fmt.Errorf("%w: GetByRef - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByRef: successfully fetched booking ref=%s", ref)
	return models.FromDomainBooking(booking), nil
}

// ListByEmail получает историю бронирований по email
// Опционально фильтрует по статусу
func (s *Service) ListByEmail(ctx context.Context, req *models.GetBookingsByEmailRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByEmail: fetching bookings for email=%s", req.Email)

	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		st, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByEmail: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	list, err := s.bookingRepo.GetByEmail(ctx, req.Email, status)
	if err != nil {
		s.logger.Error("ListByEmail: repository error for email=%s: %v", req.Email, err)
		return nil, fmt.Errorf("%w: ListByEmail - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByEmail: found %d bookings for email=%s", len(list), req.Email)
	return models.FromDomainBookingList(list), nil
}

// Cancel отменяет бронирование и возвращает места в слот
// Смена статуса и возврат мест выполняются в одной транзакции
func (s *Service) Cancel(ctx context.Context, ref string) (*models.BookingResponse, error) {
	ref = NormalizeRef(ref)
	s.logger.Info("Cancel: cancelling booking ref=%s", ref)

	if !IsValidRef(ref) {
		s.logger.Warn("Cancel: malformed booking ref=%s", ref)
		return nil, ErrBookingNotFound
	}

	var cancelled *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByRef(txCtx, ref)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking ref=%s not found", ref)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking ref=%s: %v", ref, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking ref=%s cannot be cancelled, status=%s", ref, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusCancelled); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: failed to update status for booking ref=%s: %v", ref, err)
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}

		available, err := s.slotRepo.Release(txCtx, booking.SlotID, booking.Quantity)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) || errors.Is(err, slotRepo.ErrReleaseExceedsCapacity) {
				s.logger.Error("Cancel: inconsistent slot=%s for booking ref=%s: %v", booking.SlotID, ref, err)
			} else {
				s.logger.Error("Cancel: failed to release spots for booking ref=%s: %v", ref, err)
			}
			return fmt.Errorf("%w: Cancel - release spots: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		cancelled = booking
		s.logger.Info("Cancel: released %d spots to slot=%s, available=%d", booking.Quantity, booking.SlotID, available)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingCancelled, cancelled)

	s.logger.Info("Cancel: successfully cancelled booking ref=%s", ref)
	return models.FromDomainBooking(cancelled), nil
}

// publish отправляет событие после фиксации транзакции, ошибка только логируется
func (s *Service) publish(ctx context.Context, eventType events.EventType, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}

	event := events.NewBookingEvent(eventType, booking, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish: failed to publish %s for booking ref=%s: %v", eventType, booking.BookingRef, err)
	}
}
