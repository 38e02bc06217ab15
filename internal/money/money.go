// Package money computes VAT and tab totals on integer minor units.
// All rounding truncates toward zero; with non-negative inputs that is
// floor, and the results are bit-exact across recomputations.
package money

// VATRate is a VAT percentage carried as basis points so two decimal
// places survive without floating point (20.00% == 2000).
type VATRate int64

const rateBasis = 10000

// RateFromPercent builds a VATRate from whole percent and hundredths,
// e.g. RateFromPercent(20, 0) for 20% or RateFromPercent(5, 50) for 5.5%.
func RateFromPercent(whole, hundredths int64) VATRate {
	return VATRate(whole*100 + hundredths)
}

// Percent returns the rate as a display string friendly pair
// (whole percent, hundredths).
func (r VATRate) Percent() (int64, int64) {
	return int64(r) / 100, int64(r) % 100
}

// Line holds the stored monetary fields of a single tab line.
type Line struct {
	VATAmount int64
	LineTotal int64
}

// LineSubtotal is the VAT-exclusive amount for qty units.
func LineSubtotal(unitPrice, qty int64) int64 {
	return unitPrice * qty
}

// LineVAT computes floor(lineSubtotal * rate / 100) in integer math.
func LineVAT(lineSubtotal int64, rate VATRate) int64 {
	return lineSubtotal * int64(rate) / rateBasis
}

// ComputeLine snapshots the derived fields for a new line.
func ComputeLine(unitPrice, qty int64, rate VATRate) Line {
	subtotal := LineSubtotal(unitPrice, qty)
	vat := LineVAT(subtotal, rate)
	return Line{
		VATAmount: vat,
		LineTotal: subtotal + vat,
	}
}

// Totals aggregates a tab from its stored lines.
type Totals struct {
	Subtotal      int64
	ServiceCharge int64
	VATTotal      int64
	Total         int64
}

// Compute derives tab totals from stored line data. The subtotal is
// taken as Σ(lineTotal − vat) rather than recomputing unit×qty so it
// always matches what was persisted per line.
func Compute(lines []Line) Totals {
	var t Totals
	for _, line := range lines {
		t.Subtotal += line.LineTotal - line.VATAmount
		t.VATTotal += line.VATAmount
	}
	t.ServiceCharge = t.Subtotal / 10
	t.Total = t.Subtotal + t.ServiceCharge + t.VATTotal
	return t
}
