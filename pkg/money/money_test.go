package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("9.99"), Quantity: 2},
		{UnitPrice: d("150"), Quantity: 1},
		{UnitPrice: d("0.50"), Quantity: 4},
	}

	assert.True(t, d("171.98").Equal(Subtotal(lines)))
}

func TestSubtotalEmpty(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
	assert.True(t, Subtotal([]Line{}).IsZero())
}

func TestSubtotalOrderIndependent(t *testing.T) {
	a := []Line{{UnitPrice: d("3.33"), Quantity: 3}, {UnitPrice: d("7.01"), Quantity: 2}}
	b := []Line{{UnitPrice: d("7.01"), Quantity: 2}, {UnitPrice: d("3.33"), Quantity: 3}}

	assert.True(t, Subtotal(a).Equal(Subtotal(b)))
}

func TestTax(t *testing.T) {
	assert.True(t, d("12").Equal(Tax(d("100"), d("12"))))
	assert.True(t, d("20.6376").Equal(Tax(d("171.98"), d("12"))))
	assert.True(t, Tax(d("171.98"), decimal.Zero).IsZero())
}

func TestTotal(t *testing.T) {
	cases := []struct {
		subtotal, rate, discount, want string
	}{
		{"100", "12", "0", "112"},
		{"100", "12", "12", "100"},
		{"250.50", "0", "50", "200.50"},
		{"0", "12", "0", "0"},
	}

	for _, tc := range cases {
		subtotal := d(tc.subtotal)
		tax := Tax(subtotal, d(tc.rate))
		got := Total(subtotal, tax, d(tc.discount))
		assert.True(t, d(tc.want).Equal(got), "subtotal=%s rate=%s discount=%s got=%s", tc.subtotal, tc.rate, tc.discount, got)
	}
}

func TestTotalMatchesInvariant(t *testing.T) {
	// total == s + s*r/100 - d for a spread of inputs.
	subtotals := []string{"0", "1", "9.99", "171.98", "100000"}
	rates := []string{"0", "5", "12", "21.5"}
	discounts := []string{"0", "1.25", "10"}

	for _, s := range subtotals {
		for _, r := range rates {
			for _, disc := range discounts {
				subtotal := d(s)
				want := subtotal.Add(subtotal.Mul(d(r)).Div(d("100"))).Sub(d(disc))
				got := Total(subtotal, Tax(subtotal, d(r)), d(disc))
				assert.True(t, want.Equal(got), "s=%s r=%s d=%s", s, r, disc)
			}
		}
	}
}

func TestNoFloatDrift(t *testing.T) {
	// 0.1 ten times is exactly 1 in decimal arithmetic.
	lines := make([]Line, 10)
	for i := range lines {
		lines[i] = Line{UnitPrice: d("0.1"), Quantity: 1}
	}

	assert.True(t, d("1").Equal(Subtotal(lines)))
}
