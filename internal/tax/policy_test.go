package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestComputeTaxesOnlyFlaggedLines(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: mustDecimal(t, "10.00"), Quantity: 2, SSTApplicable: true},
		{UnitPrice: mustDecimal(t, "5.00"), Quantity: 1, SSTApplicable: false},
	}

	totals := Compute(lines)

	if got := totals.Subtotal.StringFixed(2); got != "25.00" {
		t.Fatalf("subtotal = %s, want 25.00", got)
	}
	if got := totals.SSTTax.StringFixed(2); got != "1.20" {
		t.Fatalf("sst tax = %s, want 1.20", got)
	}
	if got := totals.GrandTotal.StringFixed(2); got != "26.20" {
		t.Fatalf("grand total = %s, want 26.20", got)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	t.Parallel()

	totals := Compute(nil)

	if !totals.Subtotal.IsZero() || !totals.SSTTax.IsZero() || !totals.GrandTotal.IsZero() {
		t.Fatalf("empty cart totals should all be zero, got %+v", totals)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: mustDecimal(t, "3.50"), Quantity: 3, SSTApplicable: true},
		{UnitPrice: mustDecimal(t, "1.20"), Quantity: 1, SSTApplicable: false},
	}

	first := Compute(lines)
	second := Compute(lines)

	if !first.Subtotal.Equal(second.Subtotal) ||
		!first.SSTTax.Equal(second.SSTTax) ||
		!first.GrandTotal.Equal(second.GrandTotal) {
		t.Fatalf("repeated compute diverged: %+v vs %+v", first, second)
	}
}

func TestComputeNoRoundingDriftAcrossLines(t *testing.T) {
	t.Parallel()

	// Three taxable lines whose individual taxes are sub-cent amounts.
	lines := []Line{
		{UnitPrice: mustDecimal(t, "0.33"), Quantity: 1, SSTApplicable: true},
		{UnitPrice: mustDecimal(t, "0.33"), Quantity: 1, SSTApplicable: true},
		{UnitPrice: mustDecimal(t, "0.33"), Quantity: 1, SSTApplicable: true},
	}

	totals := Compute(lines)

	// 0.99 * 0.06 = 0.0594 kept at full precision, not 3 * round(0.0198).
	if got := totals.SSTTax.String(); got != "0.0594" {
		t.Fatalf("sst tax = %s, want 0.0594", got)
	}
	if got := totals.GrandTotal.StringFixed(2); got != "1.05" {
		t.Fatalf("grand total = %s, want 1.05", got)
	}
}
