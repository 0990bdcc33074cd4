package domain

import "github.com/shopspring/decimal"

// Pricing
var (
	// TaxRate is applied to the discounted subtotal
	TaxRate = decimal.RequireFromString("0.05")
)

// MoneyScale is the number of fractional digits kept in stored amounts
const MoneyScale = 2

// Booking reference format: prefix + random suffix from BookingRefAlphabet
const (
	BookingRefPrefix       = "HUF"
	BookingRefSuffixLength = 8
	BookingRefAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Default configuration values
const (
	DefaultMaxQuantityPerBooking = 10
	DefaultMaxRefAttempts        = 5
)

// Business validation constants
const (
	MinQuantity        = 1
	MinFullNameLength  = 2
	MaxFullNameLength  = 100
	MaxEmailLength     = 254
	MaxPromoCodeLength = 32
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
