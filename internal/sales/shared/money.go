// Package shared holds calculation helpers common to the sales modules.
package shared

import "math"

// Cents converts a currency amount to integer cents, rounding half away
// from zero. All sale arithmetic happens in cents so line totals, sale
// totals and payment schedules agree exactly.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a currency amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// LineTotalCents returns the extended price of a line in cents.
func LineTotalCents(unitPrice float64, quantity int) int64 {
	return Cents(unitPrice) * int64(quantity)
}

// SplitInstallments divides totalCents into n parts. Every part gets the
// floor share; the final part absorbs the remainder so the parts always sum
// to totalCents.
func SplitInstallments(totalCents int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := totalCents / int64(n)
	parts := make([]int64, n)
	for i := range parts {
		parts[i] = base
	}
	parts[n-1] += totalCents - base*int64(n)
	return parts
}
