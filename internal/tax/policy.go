package tax

import "github.com/shopspring/decimal"

// SSTRate is the sales and service tax applied to flagged products.
var SSTRate = decimal.NewFromFloat(0.06)

// Line is the slice of a cart line the policy needs.
type Line struct {
	UnitPrice     decimal.Decimal
	Quantity      int
	SSTApplicable bool
}

// Totals is derived from cart contents and never stored independently.
type Totals struct {
	Subtotal   decimal.Decimal
	SSTTax     decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute derives subtotal, tax and grand total from the given lines.
// Amounts stay at full precision; rounding to two decimals happens only at
// the display/transmission boundary so multi-item carts never accumulate
// per-line rounding drift.
func Compute(lines []Line) Totals {
	subtotal := decimal.Zero
	sstTax := decimal.Zero

	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		extended := line.UnitPrice.Mul(qty)
		subtotal = subtotal.Add(extended)
		if line.SSTApplicable {
			sstTax = sstTax.Add(extended.Mul(SSTRate))
		}
	}

	return Totals{
		Subtotal:   subtotal,
		SSTTax:     sstTax,
		GrandTotal: subtotal.Add(sstTax),
	}
}
