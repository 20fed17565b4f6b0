package service

import (
	"context"
	"math/rand"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/procurahq/procura/internal/clock"
	"github.com/procurahq/procura/internal/invoice/domain"
	"github.com/procurahq/procura/internal/invoice/format"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/pkg/db"
	"github.com/procurahq/procura/pkg/listview"
	"github.com/procurahq/procura/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTaxRate applies when a create request carries no rate.
var DefaultTaxRate = decimal.NewFromInt(12)

// invoice numbers carry a random 4-digit draw; retry a few times on the
// rare collision with an existing number.
const maxNumberAttempts = 5

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	productRepo productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
	}
}

// Create validates the request, snapshots product prices, computes the
// totals, and writes the invoice with its items in one transaction.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return nil, domain.ErrInvalidCustomerName
	}
	if len(req.Lines) == 0 {
		return nil, domain.ErrNoLines
	}

	taxRate := DefaultTaxRate
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return nil, domain.ErrInvalidTaxRate
		}
		taxRate = *req.TaxRate
	}

	discount := decimal.Zero
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return nil, domain.ErrInvalidDiscount
		}
		discount = *req.DiscountAmount
	}

	now := s.clock.Now()
	items := make([]*domain.InvoiceItem, 0, len(req.Lines))
	lines := make([]money.Line, 0, len(req.Lines))

	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		productID, err := snowflake.ParseString(strings.TrimSpace(line.ProductID))
		if err != nil {
			return nil, domain.ErrProductNotFound
		}
		product, err := s.productRepo.FindByID(ctx, s.db, productID.Int64())
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}

		unitPrice := product.Price
		items = append(items, &domain.InvoiceItem{
			ID:          s.genID.Generate().Int64(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  unitPrice.Mul(decimal.NewFromInt(line.Quantity)),
			CreatedAt:   now,
		})
		lines = append(lines, money.Line{UnitPrice: unitPrice, Quantity: line.Quantity})
	}

	subtotal := money.Subtotal(lines)
	taxAmount := money.Tax(subtotal, taxRate)
	if discount.GreaterThan(subtotal.Add(taxAmount)) {
		return nil, domain.ErrInvalidDiscount
	}
	totalAmount := money.Total(subtotal, taxAmount, discount)

	inv := &domain.Invoice{
		ID:             s.genID.Generate().Int64(),
		CustomerName:   customerName,
		Subtotal:       subtotal,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		DiscountAmount: discount,
		TotalAmount:    totalAmount,
		PaymentStatus:  domain.StatusNotPaid,
		DueDate:        req.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		inv.CustomerEmail = &email
	}
	if address := strings.TrimSpace(req.CustomerAddress); address != "" {
		inv.CustomerAddress = &address
	}
	for i := range items {
		items[i].InvoiceID = inv.ID
	}

	if err := s.createWithNumberRetry(ctx, inv, items); err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("customer", inv.CustomerName),
		zap.Int("items", len(items)),
	)

	resp := s.toResponse(inv, items)
	return &resp, nil
}

// createWithNumberRetry inserts header and items atomically, drawing a
// fresh invoice number when the random draw collides.
func (s *Service) createWithNumberRetry(ctx context.Context, inv *domain.Invoice, items []*domain.InvoiceItem) error {
	var lastErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := format.InvoiceNumber(format.DefaultInvoiceNumberTemplate, inv.CreatedAt, rand.Int63n(10000))
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number

		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.Create(ctx, tx, inv); err != nil {
				return err
			}
			for _, item := range items {
				if err := s.repo.CreateItem(ctx, tx, item); err != nil {
					return err
				}
			}
			return nil
		})
		if lastErr == nil {
			return nil
		}
		if !db.IsDuplicateKeyErr(lastErr) {
			return lastErr
		}
		s.log.Warn("invoice number collision, retrying", zap.String("invoice_number", number))
	}
	return lastErr
}

// List applies the history view transforms: text search over customer
// name and invoice number, status filter on the derived status, single
// key sort, and a fixed-size page window.
func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	stored, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Response, 0, len(stored))
	for i := range stored {
		invoices = append(invoices, s.toResponse(&stored[i], nil))
	}

	search := strings.TrimSpace(req.Search)
	status := strings.TrimSpace(req.Status)
	invoices = listview.Filter(invoices, func(inv domain.Response) bool {
		if !listview.MatchText(search, inv.CustomerName, inv.InvoiceNumber) {
			return false
		}
		return status == "" || string(inv.PaymentStatus) == status
	})

	sortInvoices(invoices, strings.TrimSpace(req.SortBy), strings.TrimSpace(req.OrderBy))

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	page, info := listview.Paginate(invoices, req.Page, pageSize)

	return &domain.ListResponse{PageInfo: info, Invoices: page}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	inv, err := s.repo.FindByID(ctx, s.db, invoiceID.Int64())
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	stored, err := s.repo.FindItems(ctx, s.db, inv.ID)
	if err != nil {
		return nil, err
	}
	items := make([]*domain.InvoiceItem, 0, len(stored))
	for i := range stored {
		items = append(items, &stored[i])
	}

	resp := s.toResponse(inv, items)
	return &resp, nil
}

// UpdateStatus changes the one mutable field of a stored invoice.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Response, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	inv, err := s.repo.FindByID(ctx, s.db, invoiceID.Int64())
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.repo.UpdateStatus(ctx, s.db, inv.ID, status); err != nil {
		return nil, err
	}
	inv.PaymentStatus = status

	resp := s.toResponse(inv, nil)
	return &resp, nil
}

func (s *Service) toResponse(inv *domain.Invoice, items []*domain.InvoiceItem) domain.Response {
	resp := domain.Response{
		ID:              snowflake.ID(inv.ID).String(),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerAddress: inv.CustomerAddress,
		Subtotal:        inv.Subtotal,
		TaxRate:         inv.TaxRate,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		TotalAmount:     inv.TotalAmount,
		PaymentStatus:   domain.DisplayStatus(inv.PaymentStatus, inv.DueDate, s.clock.Now()),
		DueDate:         inv.DueDate,
		CreatedAt:       inv.CreatedAt,
	}

	for _, item := range items {
		resp.Items = append(resp.Items, domain.ItemResponse{
			ID:          snowflake.ID(item.ID).String(),
			ProductID:   snowflake.ID(item.ProductID).String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return resp
}

func sortInvoices(items []domain.Response, sortBy, orderBy string) {
	state := listview.SortState{Key: sortBy, Desc: strings.EqualFold(orderBy, "desc")}

	var less func(a, b domain.Response) bool
	switch sortBy {
	case "customer_name":
		less = func(a, b domain.Response) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}
	case "invoice_number":
		less = func(a, b domain.Response) bool { return a.InvoiceNumber < b.InvoiceNumber }
	case "total_amount":
		less = func(a, b domain.Response) bool { return a.TotalAmount.LessThan(b.TotalAmount) }
	case "created_at", "":
		less = func(a, b domain.Response) bool { return a.CreatedAt.Before(b.CreatedAt) }
		if sortBy == "" {
			// History defaults to newest first.
			state.Desc = true
		}
	default:
		return
	}

	listview.Sort(items, state, less)
}
