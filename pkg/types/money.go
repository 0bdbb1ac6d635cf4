package types

import "github.com/shopspring/decimal"

// MoneyString renders an amount for display or transmission. Totals are kept
// at full precision everywhere else; rounding happens only here.
func MoneyString(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// QuantityDecimal lifts an integer quantity into decimal arithmetic.
func QuantityDecimal(quantity int) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity))
}
