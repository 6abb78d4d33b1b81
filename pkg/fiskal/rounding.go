package fiskal

import "github.com/shopspring/decimal"

// RoundValue rounds a monetary amount to 2 decimal digits (half away from
// zero) and normalizes a rounded -0.00 to plain zero, so the fiscal server
// never receives "-0".
func RoundValue(amount decimal.Decimal) decimal.Decimal {
	return RoundValueDigits(amount, 2)
}

// RoundValueDigits is RoundValue with a caller-chosen precision.
func RoundValueDigits(amount decimal.Decimal, digits int32) decimal.Decimal {
	v := amount.Round(digits)
	if v.IsZero() {
		return decimal.Zero
	}
	return v
}
