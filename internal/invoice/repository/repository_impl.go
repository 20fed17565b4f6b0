package repository

import (
	"context"

	"github.com/procurahq/procura/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, invoice_number, customer_name, customer_email, customer_address,
		   subtotal, tax_rate, tax_amount, discount_amount, total_amount,
		   payment_status, due_date, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.CustomerName,
		invoice.CustomerEmail,
		invoice.CustomerAddress,
		invoice.Subtotal,
		invoice.TaxRate,
		invoice.TaxAmount,
		invoice.DiscountAmount,
		invoice.TotalAmount,
		invoice.PaymentStatus,
		invoice.DueDate,
		invoice.Metadata,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) CreateItem(ctx context.Context, db *gorm.DB, item *domain.InvoiceItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_items (id, invoice_id, product_id, product_name, quantity, unit_price, total_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.InvoiceID,
		item.ProductID,
		item.ProductName,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
		item.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, customer_name, customer_email, customer_address,
		   subtotal, tax_rate, tax_amount, discount_amount, total_amount,
		   payment_status, due_date, metadata, created_at, updated_at
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Invoice, error) {
	var items []domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, customer_name, customer_email, customer_address,
		   subtotal, tax_rate, tax_amount, discount_amount, total_amount,
		   payment_status, due_date, metadata, created_at, updated_at
		 FROM invoices ORDER BY created_at DESC, id DESC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID int64) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, product_id, product_name, quantity, unit_price, total_price, created_at
		 FROM invoice_items WHERE invoice_id = ? ORDER BY id ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status domain.PaymentStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status,
		id,
	).Error
}
