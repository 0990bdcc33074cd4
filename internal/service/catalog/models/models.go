package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/pricing"
)

// ExperienceResponse карточка впечатления в каталоге
type ExperienceResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Price        string  `json:"price"`
	DisplayPrice int64   `json:"displayPrice"`
}

// ExperienceListResponse ответ со списком впечатлений
type ExperienceListResponse struct {
	Experiences []ExperienceResponse `json:"experiences"`
}

// FromDomainExperience конвертирует domain модель в DTO
func FromDomainExperience(e *domain.Experience) *ExperienceResponse {
	if e == nil {
		return nil
	}

	return &ExperienceResponse{
		ID:           e.ID.String(),
		Name:         e.Name,
		Location:     e.Location,
		Description:  e.Description,
		ImageURL:     e.ImageURL,
		Price:        money(e.Price),
		DisplayPrice: pricing.RoundForDisplay(e.Price).IntPart(),
	}
}

// FromDomainExperienceList конвертирует список, сохраняя порядок и дубликаты
func FromDomainExperienceList(list []*domain.Experience) *ExperienceListResponse {
	resp := &ExperienceListResponse{
		Experiences: make([]ExperienceResponse, 0, len(list)),
	}

	for _, e := range list {
		if item := FromDomainExperience(e); item != nil {
			resp.Experiences = append(resp.Experiences, *item)
		}
	}

	return resp
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}
