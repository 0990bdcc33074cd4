package experience

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

func fromDomain(exp *domain.Experience) cachedExperience {
	return cachedExperience{
		ID:          exp.ID.String(),
		Name:        exp.Name,
		Location:    exp.Location,
		Description: exp.Description,
		ImageURL:    exp.ImageURL,
		Price:       exp.Price.String(),
		CreatedAt:   exp.CreatedAt,
		UpdatedAt:   exp.UpdatedAt,
	}
}

func (c cachedExperience) toDomain() (*domain.Experience, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(c.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Experience{
		ID:          id,
		Name:        c.Name,
		Location:    c.Location,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Price:       price,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}
