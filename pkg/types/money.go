package types

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ClampNonNegative floors negative amounts at zero.
func ClampNonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
