package pricing

import (
	"testing"

	"vparts/models"

	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		expected float64
	}{
		{"below threshold", 1800, 100},
		{"at threshold", 2000, 100},
		{"above threshold", 2500, 0},
		{"zero subtotal", 0, 100},
		{"just above threshold", 2000.01, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShippingCost(tt.subtotal))
		})
	}
}

func TestTax(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		expected float64
	}{
		{"round number", 1000, 180},
		{"rounds down", 1001, 180}, // 180.18
		{"rounds up", 1003, 181},   // 180.54
		{"zero", 0, 0},
		{"spec scenario", 1500, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tax(tt.subtotal))
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []models.LineItem{
		{ProductID: "p1", UnitPrice: 500, Quantity: 2},
		{ProductID: "p2", UnitPrice: 799, Quantity: 1},
	}
	assert.Equal(t, 1799.0, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestQuoteFor(t *testing.T) {
	t.Run("below free shipping", func(t *testing.T) {
		items := []models.LineItem{{ProductID: "p1", UnitPrice: 1000, Quantity: 1}}
		q := QuoteFor(items, 0)
		assert.Equal(t, 1000.0, q.Subtotal)
		assert.Equal(t, 100.0, q.ShippingCost)
		assert.Equal(t, 180.0, q.Tax)
		assert.Equal(t, 1280.0, q.Total)
	})

	t.Run("free shipping", func(t *testing.T) {
		items := []models.LineItem{{ProductID: "p1", UnitPrice: 2500, Quantity: 1}}
		q := QuoteFor(items, 0)
		assert.Equal(t, 0.0, q.ShippingCost)
		assert.Equal(t, 450.0, q.Tax)
		assert.Equal(t, 2950.0, q.Total)
	})

	t.Run("discount subtracted", func(t *testing.T) {
		items := []models.LineItem{{ProductID: "p1", UnitPrice: 1000, Quantity: 1}}
		q := QuoteFor(items, 200)
		assert.Equal(t, 200.0, q.Discount)
		assert.Equal(t, 1080.0, q.Total)
	})

	t.Run("checkout parity", func(t *testing.T) {
		// One item at 1500 must come out at exactly 1870.
		items := []models.LineItem{{ProductID: "p1", UnitPrice: 1500, Quantity: 1}}
		q := QuoteFor(items, 0)
		assert.Equal(t, Quote{Subtotal: 1500, ShippingCost: 100, Tax: 270, Discount: 0, Total: 1870}, q)
	})
}
