package models

import "time"

// Product is a bike part listed by a vendor.
type Product struct {
	ProductID     string            `json:"productId" bson:"productId"`
	VendorID      string            `json:"vendorId" bson:"vendorId"`
	Title         string            `json:"title" bson:"title"`
	Description   string            `json:"description,omitempty" bson:"description,omitempty"`
	Category      string            `json:"category" bson:"category"`
	Subcategory   string            `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Brand         string            `json:"brand,omitempty" bson:"brand,omitempty"`
	Price         float64           `json:"price" bson:"price"`
	Stock         int               `json:"stock" bson:"stock"`
	Images        []string          `json:"images,omitempty" bson:"images,omitempty"`
	Compatibility []string          `json:"compatibility,omitempty" bson:"compatibility,omitempty"` // bike model ids
	Specs         map[string]string `json:"specs,omitempty" bson:"specs,omitempty"`
	Rating        float64           `json:"rating" bson:"rating"`
	ReviewCount   int               `json:"reviewCount" bson:"reviewCount"`
	Active        bool              `json:"active" bson:"active"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Category groups parts, e.g. "Brake System" with its subcategories.
type Category struct {
	CategoryID    string   `json:"categoryId" bson:"categoryId"`
	Name          string   `json:"name" bson:"name"`
	Subcategories []string `json:"subcategories,omitempty" bson:"subcategories,omitempty"`
}

// BikeModel is a make/model pair products declare compatibility with.
type BikeModel struct {
	ModelID string `json:"modelId" bson:"modelId"`
	Make    string `json:"make" bson:"make"`
	Model   string `json:"model" bson:"model"`
	YearMin int    `json:"yearMin,omitempty" bson:"yearMin,omitempty"`
	YearMax int    `json:"yearMax,omitempty" bson:"yearMax,omitempty"`
}

// Review is a buyer's review of a product. One per buyer per product.
type Review struct {
	ReviewID  string    `json:"reviewId" bson:"reviewId"`
	ProductID string    `json:"productId" bson:"productId"`
	BuyerID   string    `json:"buyerId" bson:"buyerId"`
	Rating    int       `json:"rating" bson:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
