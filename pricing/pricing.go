// Package pricing computes order totals. All functions are pure; the
// rounding of tax to whole rupees must stay exact so recomputed totals
// match amounts recorded with the payment provider.
package pricing

import (
	"math"

	"vparts/models"
)

const (
	Currency = "INR"

	// Business rules for the Indian bike-parts market.
	FreeShippingThreshold = 2000.0
	FlatShippingFee       = 100.0
	TaxRate               = 0.18 // GST
	MinOrderAmount        = 500.0
	MaxOrderAmount        = 100000.0
)

// Quote is the priced breakdown of a cart.
type Quote struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Tax          float64 `json:"tax"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// Subtotal sums unit price times quantity over the items.
func Subtotal(items []models.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// ShippingCost is free above the threshold, a flat fee below it.
func ShippingCost(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Tax is GST on the subtotal, rounded to the nearest whole rupee.
func Tax(subtotal float64) float64 {
	return math.Round(subtotal * TaxRate)
}

// Total combines the components. Discount defaults to zero upstream;
// no promotion path currently sets it.
func Total(subtotal, shipping, tax, discount float64) float64 {
	return subtotal + shipping + tax - discount
}

// QuoteFor prices a full cart in one pass.
func QuoteFor(items []models.LineItem, discount float64) Quote {
	sub := Subtotal(items)
	ship := ShippingCost(sub)
	tax := Tax(sub)
	return Quote{
		Subtotal:     sub,
		ShippingCost: ship,
		Tax:          tax,
		Discount:     discount,
		Total:        Total(sub, ship, tax, discount),
	}
}
