package models

import "time"

// Address is one of a buyer's stored delivery addresses.
type Address struct {
	ID         string `json:"id" bson:"id"`
	Label      string `json:"label" bson:"label"` // "Home", "Work", ...
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	IsDefault  bool   `json:"isDefault" bson:"isDefault"`
}

// OrderDraft is the finalized snapshot of a cart plus computed totals
// and chosen payment method. Immutable once submitted to the payment
// step; a retry supersedes it with a new draft.
type OrderDraft struct {
	OrderID         string     `json:"orderId" bson:"orderId"`
	BuyerID         string     `json:"buyerId" bson:"buyerId"`
	Items           []LineItem `json:"items" bson:"items"`
	Subtotal        float64    `json:"subtotal" bson:"subtotal"`
	ShippingCost    float64    `json:"shippingCost" bson:"shippingCost"`
	Tax             float64    `json:"tax" bson:"tax"`
	Discount        float64    `json:"discount" bson:"discount"`
	TotalAmount     float64    `json:"totalAmount" bson:"totalAmount"`
	PaymentMethod   string     `json:"paymentMethod" bson:"paymentMethod"` // "razorpay" or "cod"
	ShippingAddress Address    `json:"shippingAddress" bson:"shippingAddress"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
}

// PaymentResult is the normalized outcome of a provider checkout,
// produced by the payment gateway and consumed by the orchestrator.
type PaymentResult struct {
	Success         bool   `json:"success" bson:"success"`
	PaymentID       string `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	ProviderOrderID string `json:"providerOrderId,omitempty" bson:"providerOrderId,omitempty"`
	Signature       string `json:"signature,omitempty" bson:"signature,omitempty"`
	Error           string `json:"error,omitempty" bson:"error,omitempty"`
}

// PaymentDetails records how a persisted order was paid.
type PaymentDetails struct {
	Method          string    `json:"method" bson:"method"`
	PaymentID       string    `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	ProviderOrderID string    `json:"providerOrderId,omitempty" bson:"providerOrderId,omitempty"`
	Signature       string    `json:"signature,omitempty" bson:"signature,omitempty"`
	Status          string    `json:"status" bson:"status"` // "pending", "completed", "failed"
	Amount          float64   `json:"amount" bson:"amount"`
	Currency        string    `json:"currency" bson:"currency"`
	PaidAt          time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// Order is the persisted order document.
type Order struct {
	OrderID         string         `json:"orderId" bson:"orderId"`
	BuyerID         string         `json:"buyerId" bson:"buyerId"`
	Items           []LineItem     `json:"items" bson:"items"`
	Subtotal        float64        `json:"subtotal" bson:"subtotal"`
	ShippingCost    float64        `json:"shippingCost" bson:"shippingCost"`
	Tax             float64        `json:"tax" bson:"tax"`
	Discount        float64        `json:"discount" bson:"discount"`
	TotalAmount     float64        `json:"totalAmount" bson:"totalAmount"`
	ShippingAddress Address        `json:"shippingAddress" bson:"shippingAddress"`
	Payment         PaymentDetails `json:"payment" bson:"payment"`
	Status          string         `json:"status" bson:"status"` // pending, confirmed, processing, shipped, delivered, cancelled
	Tracking        *TrackingInfo  `json:"tracking,omitempty" bson:"tracking,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// TrackingInfo is attached once an order ships.
type TrackingInfo struct {
	TrackingNumber string    `json:"trackingNumber" bson:"trackingNumber"`
	Carrier        string    `json:"carrier" bson:"carrier"`
	Status         string    `json:"status" bson:"status"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}
