package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	experienceRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/experience"
	slotRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/promo"
)

// Config параметры бронирования
type Config struct {
	MaxQuantity int           // Максимум мест в одном бронировании
	Timeout     time.Duration // Таймаут транзакции бронирования
}

// UseCase use case для бронирования мест в слоте
type UseCase struct {
	experienceRepo ExperienceRepository
	slotRepo       SlotRepository
	ledger         BookingLedger
	resolver       PromoResolver
	calculator     PriceCalculator
	txManager      TransactionManager
	publisher      EventPublisher
	metrics        Metrics
	timeProvider   TimeProvider
	cfg            Config
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	experienceRepo ExperienceRepository,
	slotRepo SlotRepository,
	ledger BookingLedger,
	resolver PromoResolver,
	calculator PriceCalculator,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.MaxQuantity < domain.MinQuantity {
		cfg.MaxQuantity = domain.DefaultMaxQuantityPerBooking
	}

	return &UseCase{
		experienceRepo: experienceRepo,
		slotRepo:       slotRepo,
		ledger:         ledger,
		resolver:       resolver,
		calculator:     calculator,
		txManager:      txManager,
		publisher:      publisher,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		cfg:            cfg,
		logger:         logger,
	}
}

// Execute выполняет бронирование: проверка мест, расчет цены, запись и списание
// Шаги 2-7 выполняются в одной транзакции; строка слота блокируется,
// поэтому параллельные бронирования одного слота идут по очереди
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	in, err := validateRequest(req, uc.cfg.MaxQuantity)
	if err != nil {
		uc.logger.Warn("ReserveSlot: rejected, validation failed: %v", err)
		uc.observe(outcomeRejectedValidation, 0)
		return nil, err
	}
	uc.logger.Info("ReserveSlot: received experience=%s, slot=%s, quantity=%d",
		in.experienceID, in.slotID, in.quantity)

	if uc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Timeout)
		defer cancel()
	}

	var (
		result     *domain.Booking
		experience *domain.Experience
		slot       *domain.Slot
	)

	// 2-7. Все чтения и записи в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error

		// 2. Загружаем впечатление и слот (слот с блокировкой FOR UPDATE)
		experience, err = uc.experienceRepo.GetByID(txCtx, in.experienceID)
		if err != nil {
			if errors.Is(err, experienceRepo.ErrExperienceNotFound) {
				uc.logger.Warn("ReserveSlot: rejected, experience=%s not found", in.experienceID)
				return ErrExperienceNotFound
			}
			uc.logger.Error("ReserveSlot: failed to get experience=%s: %v", in.experienceID, err)
			return fmt.Errorf("%w: failed to get experience: %w", ErrBookingFailed, err)
		}

		slot, err = uc.slotRepo.GetByID(txCtx, in.slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("ReserveSlot: rejected, slot=%s not found", in.slotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("ReserveSlot: failed to get slot=%s: %v", in.slotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrBookingFailed, err)
		}

		if slot.ExperienceID != experience.ID {
			uc.logger.Warn("ReserveSlot: rejected, slot=%s belongs to experience=%s", slot.ID, slot.ExperienceID)
			return ErrSlotNotFound
		}

		// 3. Проверяем вместимость
		if !slot.HasCapacity(in.quantity) {
			uc.logger.Warn("ReserveSlot: rejected, slot=%s has %d spots, requested %d",
				slot.ID, slot.AvailableSpots, in.quantity)
			return &InsufficientCapacityError{Available: slot.AvailableSpots, Requested: in.quantity}
		}
		uc.logger.Info("ReserveSlot: capacity checked, slot=%s has %d/%d spots",
			slot.ID, slot.AvailableSpots, slot.TotalSpots)

		// 4. Промокод
		discount, appliedCode, err := uc.resolveDiscount(experience.Price, in)
		if err != nil {
			return err
		}

		// 5. Расчет цены
		breakdown, err := uc.calculator.Price(experience.Price, in.quantity, discount)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to price booking: %v", err)
			return fmt.Errorf("%w: failed to price booking: %v", ErrBookingFailed, err)
		}
		uc.logger.Info("ReserveSlot: priced subtotal=%s, discount=%s, taxes=%s, total=%s",
			breakdown.Subtotal, breakdown.Discount, breakdown.Taxes, breakdown.Total)

		// 6. Запись в журнал и списание мест
		created, err := uc.ledger.Record(txCtx, &domain.Booking{
			ExperienceID: experience.ID,
			SlotID:       slot.ID,
			FullName:     in.fullName,
			Email:        in.email,
			Quantity:     in.quantity,
			PromoCode:    appliedCode,
			Subtotal:     breakdown.Subtotal,
			Discount:     breakdown.Discount,
			Taxes:        breakdown.Taxes,
			Total:        breakdown.Total,
			Status:       domain.StatusConfirmed,
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to record booking: %v", err)
			return fmt.Errorf("%w: failed to record booking: %w", ErrBookingFailed, err)
		}

		remaining, err := uc.slotRepo.Reserve(txCtx, slot.ID, in.quantity)
		if err != nil {
			var capErr *slotRepo.InsufficientCapacityError
			if errors.As(err, &capErr) {
				uc.logger.Warn("ReserveSlot: rejected on decrement, slot=%s has %d spots", slot.ID, capErr.Available)
				return &InsufficientCapacityError{Available: capErr.Available, Requested: in.quantity}
			}
			uc.logger.Error("ReserveSlot: failed to decrement slot=%s: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to decrement slot: %w", ErrBookingFailed, err)
		}

		slot.AvailableSpots = remaining
		result = created
		return nil
	})
	if err != nil {
		uc.observe(outcomeOf(err), 0)
		return nil, classify(err)
	}

	// 7. Транзакция зафиксирована
	uc.logger.Info("ReserveSlot: committed booking %s, slot=%s has %d spots left",
		result.BookingRef, slot.ID, slot.AvailableSpots)
	uc.observe(outcomeConfirmed, result.Quantity)

	uc.publishConfirmed(ctx, result)

	return &Response{
		BookingRef:     result.BookingRef,
		ExperienceID:   experience.ID.String(),
		SlotID:         slot.ID.String(),
		ExperienceName: experience.Name,
		Date:           slot.DateString(),
		Time:           slot.Time,
		FullName:       result.FullName,
		Email:          result.Email,
		Quantity:       result.Quantity,
		Subtotal:       result.Subtotal,
		Discount:       result.Discount,
		Taxes:          result.Taxes,
		Total:          result.Total,
		PromoCode:      result.PromoCode,
		Status:         string(result.Status),
		CreatedAt:      result.CreatedAt,
	}, nil
}

// resolveDiscount считает скидку; неизвестный код дает нулевую скидку
func (uc *UseCase) resolveDiscount(unitPrice decimal.Decimal, in *validRequest) (decimal.Decimal, *string, error) {
	if in.promoCode == "" {
		return decimal.Zero, nil, nil
	}

	subtotal, err := uc.calculator.Subtotal(unitPrice, in.quantity)
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to compute subtotal: %v", err)
		return decimal.Zero, nil, fmt.Errorf("%w: failed to compute subtotal: %v", ErrBookingFailed, err)
	}

	resolution, err := uc.resolver.Resolve(in.promoCode, subtotal)
	if err != nil {
		if errors.Is(err, promo.ErrPromoNotFound) {
			uc.logger.Warn("ReserveSlot: promo code %q not found, continuing without discount", in.promoCode)
			uc.observePromo(promo.LookupNotFound)
			return decimal.Zero, nil, nil
		}
		uc.logger.Error("ReserveSlot: failed to resolve promo code %q: %v", in.promoCode, err)
		return decimal.Zero, nil, fmt.Errorf("%w: failed to resolve promo: %v", ErrBookingFailed, err)
	}

	uc.observePromo(promo.LookupApplied)
	code := resolution.Rule.Code
	uc.logger.Info("ReserveSlot: promo %s applied, discount=%s", code, resolution.Discount)
	return resolution.Discount, &code, nil
}

// publishConfirmed публикует событие после фиксации, ошибка только логируется
func (uc *UseCase) publishConfirmed(ctx context.Context, booking *domain.Booking) {
	if uc.publisher == nil {
		return
	}

	event := events.NewBookingEvent(events.BookingConfirmed, booking, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("ReserveSlot: failed to publish %s for booking %s: %v", event.Type, booking.BookingRef, err)
	}
}

func (uc *UseCase) observe(outcome string, spots int) {
	if uc.metrics != nil {
		uc.metrics.ObserveReservation(outcome, spots)
	}
}

// classify приводит ошибку к одной из типизированных ошибок use case
// Все, что не отказ по правилам, становится ErrBookingFailed
func classify(err error) error {
	var capErr *InsufficientCapacityError
	switch {
	case errors.As(err, &capErr):
		return capErr
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation), errors.Is(err, ErrBookingFailed):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}
}

func (uc *UseCase) observePromo(result string) {
	if uc.metrics != nil {
		uc.metrics.ObservePromoLookup(result)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientCapacity):
		return outcomeRejectedCapacity
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeFailed
	}
}
