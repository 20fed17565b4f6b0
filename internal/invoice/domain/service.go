package domain

import (
	"context"
	"errors"
	"time"

	"github.com/procurahq/procura/pkg/listview"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is the invoice history page size.
const DefaultPageSize = 10

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	UpdateStatus(ctx context.Context, id string, status PaymentStatus) (*Response, error)
}

// LineInput selects a product and quantity for a new invoice.
type LineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateRequest struct {
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerAddress string           `json:"customer_address"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	DueDate         *time.Time       `json:"due_date"`
	Lines           []LineInput      `json:"lines"`
}

type ListRequest struct {
	Search   string
	Status   string
	SortBy   string
	OrderBy  string
	Page     int
	PageSize int
}

type ListResponse struct {
	listview.PageInfo
	Invoices []Response `json:"invoices"`
}

type ItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type Response struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   *string         `json:"customer_email,omitempty"`
	CustomerAddress *string         `json:"customer_address,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []ItemResponse  `json:"items,omitempty"`
}

var (
	ErrInvalidCustomerName = errors.New("invalid_customer_name")
	ErrNoLines             = errors.New("no_lines")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrInvalidDiscount     = errors.New("invalid_discount")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrProductNotFound     = errors.New("product_not_found")
)
