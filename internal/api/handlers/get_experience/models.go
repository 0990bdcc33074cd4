package get_experience

import (
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/catalog/models"
	getExperience "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/get_experience"
)

// ExperienceDetailsResponse HTTP response model
type ExperienceDetailsResponse struct {
	models.ExperienceResponse
	Slots []SlotResponse `json:"slots"`
}

// SlotResponse слот со свободными местами
type SlotResponse struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getExperience.Response) *ExperienceDetailsResponse {
	result := &ExperienceDetailsResponse{
		ExperienceResponse: *models.FromDomainExperience(resp.Experience),
		Slots:              make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			ID:             s.ID,
			Date:           s.Date,
			Time:           s.Time,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	return result
}
