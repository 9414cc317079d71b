package money

import "github.com/shopspring/decimal"

// Gateways exchange amounts in minor units (kobo, pesewas, cents); the
// application works in major-unit decimals. The factor is 100 in both
// directions and each amount crosses the boundary exactly once.

var minorFactor = decimal.NewFromInt(100)

// FromMinor converts a minor-unit wire amount into a major-unit decimal.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorFactor)
}

// ToMinor converts a major-unit decimal into the minor units a gateway
// expects. The amount is rounded half-up to the nearest minor unit.
func ToMinor(major decimal.Decimal) int64 {
	return major.Mul(minorFactor).Round(0).IntPart()
}

// Round2 rounds a major-unit amount to two decimal places, half up.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
