package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

// RandomRefGenerator генерирует код вида HUF + 8 символов [A-Z0-9]
type RandomRefGenerator struct{}

// Generate возвращает новый случайный код бронирования
func (RandomRefGenerator) Generate() (string, error) {
	alphabetLen := big.NewInt(int64(len(domain.BookingRefAlphabet)))

	var sb strings.Builder
	sb.Grow(len(domain.BookingRefPrefix) + domain.BookingRefSuffixLength)
	sb.WriteString(domain.BookingRefPrefix)

	for i := 0; i < domain.BookingRefSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		sb.WriteByte(domain.BookingRefAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// NormalizeRef приводит код к каноничному виду
func NormalizeRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// IsValidRef проверяет формат кода бронирования
func IsValidRef(ref string) bool {
	if len(ref) != len(domain.BookingRefPrefix)+domain.BookingRefSuffixLength {
		return false
	}
	if !strings.HasPrefix(ref, domain.BookingRefPrefix) {
		return false
	}
	for _, c := range ref[len(domain.BookingRefPrefix):] {
		if !strings.ContainsRune(domain.BookingRefAlphabet, c) {
			return false
		}
	}
	return true
}
