package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStatus values.
const (
	ProductStatusAvailable    = "available"
	ProductStatusOutOfStock   = "out-of-stock"
	ProductStatusDiscontinued = "discontinued"
)

// ProductImage holds image location metadata. Binary storage and upload are
// handled outside this system.
type ProductImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

// Product represents a manufacturer's catalog entry.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Price          float64            `bson:"price" json:"price"`
	Category       string             `bson:"category" json:"category"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Unit           string             `bson:"unit" json:"unit"` // kg, pieces, etc.
	Images         []ProductImage     `bson:"images" json:"images"`
	Specifications map[string]string  `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Manufacturer   primitive.ObjectID `bson:"manufacturer" json:"manufacturer"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProductSummary is the subset of a product embedded into inquiry views.
type ProductSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Category string             `json:"category,omitempty"`
	Price    float64            `json:"price,omitempty"`
	Unit     string             `json:"unit,omitempty"`
	Images   []ProductImage     `json:"images,omitempty"`
}
