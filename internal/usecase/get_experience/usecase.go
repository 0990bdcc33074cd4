package get_experience

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	experienceRepo "github.com/m04kA/SMC-ExperienceBookingService/internal/infra/storage/experience"
)

// UseCase use case для получения впечатления со свободными слотами
type UseCase struct {
	experienceRepo ExperienceRepository
	slotRepo       SlotRepository
	txManager      TransactionManager
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	experienceRepo ExperienceRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		experienceRepo: experienceRepo,
		slotRepo:       slotRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// Execute возвращает впечатление и его слоты с available_spots > 0
// Слоты отсортированы по дате и времени; время сравнивается как строка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetExperience: experience=%s", req.ExperienceID)

	id, err := uuid.Parse(strings.TrimSpace(req.ExperienceID))
	if err != nil {
		uc.logger.Warn("GetExperience: validation failed: malformed id %q", req.ExperienceID)
		return nil, fmt.Errorf("%w: experienceId must be a UUID", ErrInvalidInput)
	}

	var (
		experience *domain.Experience
		slots      []*domain.Slot
	)

	// Впечатление и слоты читаются в одной read-only транзакции
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error

		experience, err = uc.experienceRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, experienceRepo.ErrExperienceNotFound) {
				uc.logger.Warn("GetExperience: experience=%s not found", id)
				return ErrExperienceNotFound
			}
			uc.logger.Error("GetExperience: failed to get experience=%s: %v", id, err)
			return fmt.Errorf("%w: failed to get experience: %v", ErrInternal, err)
		}

		slots, err = uc.slotRepo.ListAvailableByExperience(txCtx, id)
		if err != nil {
			uc.logger.Error("GetExperience: failed to list slots for experience=%s: %v", id, err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetExperience: experience=%s has %d available slots", id, len(slots))

	resp := &Response{
		Experience: experience,
		Slots:      make([]Slot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{
			ID:             s.ID.String(),
			Date:           s.DateString(),
			Time:           s.Time,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	return resp, nil
}
