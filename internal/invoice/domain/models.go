// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentStatus is the payment lifecycle label of an invoice.
type PaymentStatus string

const (
	StatusPaid     PaymentStatus = "paid"
	StatusNotPaid  PaymentStatus = "not_paid"
	StatusHalfPaid PaymentStatus = "half_paid"
	StatusDue      PaymentStatus = "due"
	StatusOverdue  PaymentStatus = "overdue"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusNotPaid, StatusHalfPaid, StatusDue, StatusOverdue:
		return true
	default:
		return false
	}
}

// DisplayStatus maps a stored status and due date to what the reader
// should see: "due" past its due date reads as "overdue". The stored
// value is never changed; this is a view, not a transition.
func DisplayStatus(stored PaymentStatus, dueDate *time.Time, now time.Time) PaymentStatus {
	if stored == "" {
		stored = StatusNotPaid
	}
	if stored == StatusDue && dueDate != nil && dueDate.Before(now) {
		return StatusOverdue
	}
	return stored
}

// Invoice is a finalized billing document. Totals are computed once at
// creation and never recalculated; payment status is the only field
// that changes afterwards.
type Invoice struct {
	ID              int64             `json:"id" gorm:"primaryKey"`
	InvoiceNumber   string            `json:"invoice_number" gorm:"column:invoice_number;type:text;not null;uniqueIndex:ux_invoices_number"`
	CustomerName    string            `json:"customer_name" gorm:"type:text;not null"`
	CustomerEmail   *string           `json:"customer_email,omitempty" gorm:"type:text"`
	CustomerAddress *string           `json:"customer_address,omitempty" gorm:"type:text"`
	Subtotal        decimal.Decimal   `json:"subtotal" gorm:"type:numeric(14,2);not null"`
	TaxRate         decimal.Decimal   `json:"tax_rate" gorm:"type:numeric(6,2);not null"`
	TaxAmount       decimal.Decimal   `json:"tax_amount" gorm:"type:numeric(14,2);not null"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount" gorm:"type:numeric(14,2);not null"`
	TotalAmount     decimal.Decimal   `json:"total_amount" gorm:"type:numeric(14,2);not null"`
	PaymentStatus   PaymentStatus     `json:"payment_status" gorm:"type:text;not null;default:'not_paid'"`
	DueDate         *time.Time        `json:"due_date,omitempty"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one line on an invoice. Unit price is copied from the
// product at creation time and stays decoupled from later price edits.
type InvoiceItem struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	InvoiceID   int64           `json:"invoice_id" gorm:"not null;index"`
	ProductID   int64           `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"type:text;not null"`
	Quantity    int64           `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(14,2);not null"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:numeric(14,2);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
