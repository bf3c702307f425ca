package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/voicebill/voice-billing-be/internal/core/resolve"
)

// Product is a catalog entry. Price is per unit (kg/litre/pcs as per
// business), GST in percent. Admins create and edit products; the voice
// pipeline only ever reads immutable snapshots of them.
type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name       string  `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Price      float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	GSTPercent float64 `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percent"`

	// GSTLocked marks a per-product GST override; global GST updates
	// skip locked products.
	GSTLocked bool `gorm:"type:boolean;default:false" json:"gst_locked"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Snapshot converts the product into an immutable catalog entry for one
// pipeline run
func (p *Product) Snapshot() resolve.Product {
	return resolve.Product{
		ID:         p.ID,
		Name:       p.Name,
		UnitPrice:  decimal.NewFromFloat(p.Price),
		GSTPercent: decimal.NewFromFloat(p.GSTPercent),
	}
}

// CreateProductRequest represents product creation input. A nil GSTPercent
// means the product follows the global GST rate.
type CreateProductRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=200"`
	Price      float64  `json:"price" validate:"required,gte=0"`
	GSTPercent *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// UpdateProductRequest represents product update input
type UpdateProductRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	GSTPercent *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// GlobalGSTRequest sets the GST percent on every product without a
// per-product override
type GlobalGSTRequest struct {
	GSTPercent float64 `json:"gst_percent" validate:"gte=0,lte=100"`
}
