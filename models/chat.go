package models

import "time"

// Conversation links a buyer and a vendor, usually about a product.
type Conversation struct {
	ConversationID string    `json:"conversationId" bson:"conversationId"`
	BuyerID        string    `json:"buyerId" bson:"buyerId"`
	VendorID       string    `json:"vendorId" bson:"vendorId"`
	ProductID      string    `json:"productId,omitempty" bson:"productId,omitempty"`
	LastMessage    string    `json:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Message is a single chat message within a conversation.
type Message struct {
	MessageID      string    `json:"messageId" bson:"messageId"`
	ConversationID string    `json:"conversationId" bson:"conversationId"`
	SenderID       string    `json:"senderId" bson:"senderId"`
	Content        string    `json:"content" bson:"content"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Notification is a per-user notification document.
type Notification struct {
	NotificationID string    `json:"notificationId" bson:"notificationId"`
	UserID         string    `json:"userId" bson:"userId"`
	Type           string    `json:"type" bson:"type"` // "order", "message", "promo"
	Title          string    `json:"title" bson:"title"`
	Body           string    `json:"body,omitempty" bson:"body,omitempty"`
	EntityID       string    `json:"entityId,omitempty" bson:"entityId,omitempty"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}
