package models

import "time"

// LineItem is one product + quantity entry within a cart.
// Unique by ProductID within a single cart.
type LineItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	VendorID  string  `json:"vendorId" bson:"vendorId"`
	Title     string  `json:"title" bson:"title"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// CartState holds the items plus totals derived from them.
// TotalItems and TotalAmount are always recomputed from Items,
// never patched incrementally.
type CartState struct {
	Items       []LineItem `json:"items" bson:"items"`
	TotalItems  int        `json:"totalItems" bson:"totalItems"`
	TotalAmount float64    `json:"totalAmount" bson:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
