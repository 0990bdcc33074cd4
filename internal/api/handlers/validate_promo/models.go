package validate_promo

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings/models"
	validatePromo "github.com/m04kA/SMC-ExperienceBookingService/internal/usecase/validate_promo"
)

// ValidatePromoRequest HTTP request model
// subtotal принимается и числом, и строкой
type ValidatePromoRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ValidatePromoResponse HTTP response model
type ValidatePromoResponse struct {
	Code     string `json:"code"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	Discount string `json:"discount"`
}

func (r *ValidatePromoRequest) ToUseCaseRequest() *validatePromo.Request {
	return &validatePromo.Request{
		Code:     r.Code,
		Subtotal: r.Subtotal,
	}
}

func FromUseCaseResponse(resp *validatePromo.Response) *ValidatePromoResponse {
	return &ValidatePromoResponse{
		Code:     resp.Code,
		Type:     resp.Type,
		Value:    resp.Value.String(),
		Discount: models.Money(resp.Discount),
	}
}
