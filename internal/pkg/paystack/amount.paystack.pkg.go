package paystack

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToKobo converts a major-unit amount to the minor unit Paystack expects,
// rounding half away from zero.
func ToKobo(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// FromKobo converts a minor-unit amount back to the major unit.
func FromKobo(amountInKobo int64) float64 {
	return decimal.New(amountInKobo, -2).InexactFloat64()
}
