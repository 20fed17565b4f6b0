package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	CreateItem(ctx context.Context, db *gorm.DB, item *InvoiceItem) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Invoice, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Invoice, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID int64) ([]InvoiceItem, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status PaymentStatus) error
}
