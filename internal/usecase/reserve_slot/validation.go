package reserve_slot

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// validRequest нормализованный запрос после проверки
type validRequest struct {
	experienceID uuid.UUID
	slotID       uuid.UUID
	fullName     string
	email        string
	quantity     int
	promoCode    string
}

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request, maxQuantity int) (*validRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrValidation)
	}

	experienceID, err := uuid.Parse(strings.TrimSpace(req.ExperienceID))
	if err != nil {
		return nil, fmt.Errorf("%w: experienceId must be a UUID", ErrValidation)
	}

	slotID, err := uuid.Parse(strings.TrimSpace(req.SlotID))
	if err != nil {
		return nil, fmt.Errorf("%w: slotId must be a UUID", ErrValidation)
	}

	if req.Quantity < domain.MinQuantity {
		return nil, fmt.Errorf("%w: quantity must be at least %d", ErrValidation, domain.MinQuantity)
	}
	if req.Quantity > maxQuantity {
		return nil, fmt.Errorf("%w: quantity must not exceed %d", ErrValidation, maxQuantity)
	}

	fullName := strings.TrimSpace(req.FullName)
	nameLen := utf8.RuneCountInString(fullName)
	if nameLen < domain.MinFullNameLength || nameLen > domain.MaxFullNameLength {
		return nil, fmt.Errorf("%w: fullName must be %d-%d characters",
			ErrValidation, domain.MinFullNameLength, domain.MaxFullNameLength)
	}

	email, err := validateEmail(req.Email)
	if err != nil {
		return nil, err
	}

	promoCode := strings.TrimSpace(req.PromoCode)
	if len(promoCode) > domain.MaxPromoCodeLength {
		return nil, fmt.Errorf("%w: promoCode must not exceed %d characters", ErrValidation, domain.MaxPromoCodeLength)
	}

	return &validRequest{
		experienceID: experienceID,
		slotID:       slotID,
		fullName:     fullName,
		email:        email,
		quantity:     req.Quantity,
		promoCode:    promoCode,
	}, nil
}

// validateEmail принимает только голый адрес, без имени и угловых скобок
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(email) > domain.MaxEmailLength {
		return "", fmt.Errorf("%w: email is too long", ErrValidation)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", fmt.Errorf("%w: email is invalid", ErrValidation)
	}

	return email, nil
}
