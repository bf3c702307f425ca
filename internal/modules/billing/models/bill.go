package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BillRecord is a persisted completed bill: header fields for stats plus
// the full line items and diagnostics as JSON.
type BillRecord struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	CustomerName    string `gorm:"type:text" json:"customer_name"`
	CustomerPhone   string `gorm:"type:text" json:"customer_phone"`
	CustomerAddress string `gorm:"type:text" json:"customer_address"`

	Subtotal    float64 `gorm:"type:decimal(14,2);not null;default:0" json:"subtotal"`
	TotalGST    float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_gst"`
	TotalAmount float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`

	FilePath    string         `gorm:"type:text" json:"file_path"`
	LineItems   datatypes.JSON `gorm:"type:jsonb" json:"line_items"`
	Diagnostics datatypes.JSON `gorm:"type:jsonb" json:"diagnostics"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (BillRecord) TableName() string {
	return "bills"
}

// BeforeCreate sets UUID before creating
func (b *BillRecord) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Stats is the admin dashboard summary
type Stats struct {
	TotalProducts  int64 `json:"total_products"`
	TotalTemplates int64 `json:"total_templates"`
	RecentBills    int64 `json:"recent_bills"` // Bills in the last 30 days
}
