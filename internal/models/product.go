package models

import (
	"gorm.io/gorm"
)

// Product represents a catalog product.
// Images and Tags are stored as JSON columns to keep the schema flat.
type Product struct {
	ID            string   `json:"id" gorm:"primaryKey"`
	Name          string   `json:"name" gorm:"not null"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" gorm:"not null"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" gorm:"column:original_price"`
	Category      string   `json:"category" gorm:"index"`
	Image         string   `json:"image"`
	Images        []string `json:"images,omitempty" gorm:"serializer:json"`
	Featured      bool     `json:"featured" gorm:"default:false;index"`
	Tags          []string `json:"tags,omitempty" gorm:"serializer:json"`
	gorm.Model
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
