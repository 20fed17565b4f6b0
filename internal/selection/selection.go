// Package selection holds the transient cart an invoice is built from:
// a map of product id to product snapshot and quantity. A cart lives for
// one invoice-creation session and is discarded on finalize.
package selection

import (
	"sort"

	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/pkg/money"
)

// Entry is one chosen product with its quantity.
type Entry struct {
	Product  productdomain.Response `json:"product"`
	Quantity int64                  `json:"quantity"`
}

// Cart maps product id to entry. Not safe for concurrent use; callers
// that share a cart across requests must serialize access.
type Cart struct {
	entries map[string]Entry
}

func NewCart() *Cart {
	return &Cart{entries: make(map[string]Entry)}
}

// Select inserts or overwrites the entry for the product. A quantity
// below 1 selects a single unit.
func (c *Cart) Select(product productdomain.Response, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}
	c.entries[product.ID] = Entry{Product: product, Quantity: quantity}
}

// Deselect removes the entry. Removing an absent id is a no-op.
func (c *Cart) Deselect(productID string) {
	delete(c.entries, productID)
}

// SetQuantity updates the quantity for an already selected product.
// Absent ids and quantities below 1 are ignored.
func (c *Cart) SetQuantity(productID string, quantity int64) {
	if quantity < 1 {
		return
	}
	entry, ok := c.entries[productID]
	if !ok {
		return
	}
	entry.Quantity = quantity
	c.entries[productID] = entry
}

func (c *Cart) Size() int {
	return len(c.entries)
}

// Entries returns the cart content ordered by product id, so output is
// deterministic regardless of selection order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

// Lines converts the cart to money lines for totals arithmetic.
func (c *Cart) Lines() []money.Line {
	entries := c.Entries()
	lines := make([]money.Line, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, money.Line{UnitPrice: entry.Product.Price, Quantity: entry.Quantity})
	}
	return lines
}
