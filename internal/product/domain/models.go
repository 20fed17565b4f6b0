// Package domain contains persistence models for the product catalog.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is a catalog entry. Prices are decimals; invoice items copy
// the price at invoice-creation time, so later edits never rewrite
// history.
type Product struct {
	ID            int64             `json:"id" gorm:"primaryKey"`
	Name          string            `json:"name" gorm:"type:text;not null"`
	Price         decimal.Decimal   `json:"price" gorm:"type:numeric(14,2);not null"`
	Company       string            `json:"company" gorm:"type:text;not null"`
	Address       string            `json:"address" gorm:"type:text;not null"`
	ContactNumber string            `json:"contact_number" gorm:"column:contact_number;type:text;not null"`
	Email         string            `json:"email" gorm:"type:text;not null"`
	CostPrice     *decimal.Decimal  `json:"cost_price,omitempty" gorm:"type:numeric(14,2)"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
