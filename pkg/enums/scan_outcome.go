package enums

// ScanOutcome classifies what happened to a decoded barcode.
type ScanOutcome string

const (
	// ScanOutcomeAdded means the product was found and dropped into the cart.
	ScanOutcomeAdded ScanOutcome = "added"
	// ScanOutcomeNotFound means the catalog has no product for the code.
	ScanOutcomeNotFound ScanOutcome = "not_found"
	// ScanOutcomeError covers transport or auth failures during lookup;
	// deliberately not reported as not-found.
	ScanOutcomeError ScanOutcome = "error"
)

// String implements fmt.Stringer.
func (o ScanOutcome) String() string {
	return string(o)
}
