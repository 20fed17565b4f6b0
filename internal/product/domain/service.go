package domain

import (
	"context"
	"errors"
	"time"

	"github.com/procurahq/procura/internal/product/csv"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	ImportCSV(ctx context.Context, text string) (*ImportResult, error)
}

type CreateRequest struct {
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	Company       string           `json:"company"`
	Address       string           `json:"address"`
	ContactNumber string           `json:"contact_number"`
	Email         string           `json:"email"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Metadata      map[string]any   `json:"metadata"`
}

type UpdateRequest struct {
	ID            string
	Name          *string          `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	Company       *string          `json:"company"`
	Address       *string          `json:"address"`
	ContactNumber *string          `json:"contact_number"`
	Email         *string          `json:"email"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Metadata      map[string]any   `json:"metadata"`
}

type ListRequest struct {
	Search  string
	SortBy  string
	OrderBy string
}

type Response struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	Company       string           `json:"company"`
	Address       string           `json:"address"`
	ContactNumber string           `json:"contact_number"`
	Email         string           `json:"email"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ImportResult reports a CSV bulk import: what was persisted plus the
// rows that were rejected, by line number.
type ImportResult struct {
	Imported  int            `json:"imported"`
	Products  []Response     `json:"products"`
	RowErrors []csv.RowError `json:"row_errors,omitempty"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidAddress   = errors.New("invalid_address")
	ErrInvalidContact   = errors.New("invalid_contact_number")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidCostPrice = errors.New("invalid_cost_price")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)
