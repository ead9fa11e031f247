// Package cart implements the per-session sale cart.
package cart

import (
	shared "github.com/gestor-pos/gestor-pos/internal/sales/shared"
)

// Line is one product entry in the cart. The unit price is frozen at the
// moment the product is added, decoupled from later catalog price changes.
type Line struct {
	ProductID int64   `json:"product_id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Cart accumulates product lines for one checkout session.
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddLine adds one unit of the product; an existing line for the same
// product increments its quantity instead.
func (c *Cart) AddLine(line Line) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.Lines = append(c.Lines, line)
}

// RemoveLine drops the line for the product.
func (c *Cart) RemoveLine(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces a line quantity. Quantities below 1 are rejected and
// leave the cart unchanged.
func (c *Cart) SetQuantity(productID int64, qty int) bool {
	if qty < 1 {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return true
		}
	}
	return false
}

// TotalCents sums the extended line prices in cents.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += shared.LineTotalCents(line.UnitPrice, line.Quantity)
	}
	return total
}

// Total sums the extended line prices as a currency amount.
func (c *Cart) Total() float64 {
	return shared.FromCents(c.TotalCents())
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
