// Package money holds the invoice amount arithmetic. All functions are
// pure and deterministic; boundary validation (negative rates, excess
// discounts) belongs to the calling service.
package money

import "github.com/shopspring/decimal"

// Line is one priced quantity on an invoice.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

// Amount returns unit price times quantity.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Subtotal sums line amounts. An empty slice yields zero.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount())
	}
	return total
}

// Tax computes subtotal * ratePercent / 100.
func Tax(subtotal, ratePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(ratePercent).Div(decimal.NewFromInt(100))
}

// Total computes subtotal + tax - discount.
func Total(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Sub(discount)
}
