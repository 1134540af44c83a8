package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToCents converts a major-unit amount to integer minor units, rounding
// half-up at the cents boundary. Amounts are validated non-negative before
// they reach this point, so Round's half-away-from-zero behaviour is
// equivalent to half-up here.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// CentsToMajor returns the major-unit value of an amount stored in minor
// units, quantized to two decimal places.
func CentsToMajor(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(hundred).Round(2).Float64()
	return f
}

// QuantizeMajor quantizes a major-unit amount to two decimal places.
// Used for the discount, which is stored in major units rather than cents.
func QuantizeMajor(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ToWholeUnits rounds a major-unit amount half-up to a whole integer unit.
// Menu item prices are stored this way (whole EGP, no cents).
func ToWholeUnits(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}
