// Package draft manages in-progress invoice sessions: a server-held
// cart per session that is filled from the catalog, priced live, and
// discarded once the invoice is finalized. Sessions are process-local
// by design; they are scratch state, not data.
package draft

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	invoicedomain "github.com/procurahq/procura/internal/invoice/domain"
	invoiceservice "github.com/procurahq/procura/internal/invoice/service"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/internal/selection"
	"github.com/procurahq/procura/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrDraftNotFound = errors.New("draft_not_found")
)

// Totals is the running arithmetic for a draft, computed per read with
// the caller's tax rate and discount.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// View is a draft as returned to callers.
type View struct {
	ID      string            `json:"id"`
	Entries []selection.Entry `json:"entries"`
	Totals  Totals            `json:"totals"`
}

type Params struct {
	fx.In

	Log        *zap.Logger
	ProductSvc productdomain.Service
	InvoiceSvc invoicedomain.Service
}

type Service struct {
	mu         sync.Mutex
	carts      map[string]*selection.Cart
	log        *zap.Logger
	productSvc productdomain.Service
	invoiceSvc invoicedomain.Service
}

func New(p Params) *Service {
	return &Service{
		carts:      make(map[string]*selection.Cart),
		log:        p.Log.Named("draft.service"),
		productSvc: p.ProductSvc,
		invoiceSvc: p.InvoiceSvc,
	}
}

// Create opens a new empty session.
func (s *Service) Create() View {
	id := uuid.NewString()

	s.mu.Lock()
	s.carts[id] = selection.NewCart()
	s.mu.Unlock()

	return View{ID: id, Entries: []selection.Entry{}, Totals: zeroTotals()}
}

// Get returns the session with totals for the given rate and discount.
func (s *Service) Get(id string, taxRate, discount decimal.Decimal) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	view := s.view(id, cart, taxRate, discount)
	return &view, nil
}

// SelectItem resolves the product and puts it in the cart, overwriting
// any previous quantity.
func (s *Service) SelectItem(ctx context.Context, id, productID string, quantity int64) (*View, error) {
	product, err := s.productSvc.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cart.Select(*product, quantity)

	view := s.view(id, cart, invoiceDefaultRate(), decimal.Zero)
	return &view, nil
}

// SetQuantity updates an already selected product. Unknown products and
// non-positive quantities leave the cart unchanged.
func (s *Service) SetQuantity(id, productID string, quantity int64) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cart.SetQuantity(productID, quantity)

	view := s.view(id, cart, invoiceDefaultRate(), decimal.Zero)
	return &view, nil
}

// DeselectItem removes the product from the cart.
func (s *Service) DeselectItem(id, productID string) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cart.Deselect(productID)

	view := s.view(id, cart, invoiceDefaultRate(), decimal.Zero)
	return &view, nil
}

// Finalize turns the session into a stored invoice and discards the
// session. The session survives a failed create so the caller can fix
// the request and retry.
func (s *Service) Finalize(ctx context.Context, id string, req invoicedomain.CreateRequest) (*invoicedomain.Response, error) {
	s.mu.Lock()
	cart, ok := s.carts[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	entries := cart.Entries()
	s.mu.Unlock()

	req.Lines = make([]invoicedomain.LineInput, 0, len(entries))
	for _, entry := range entries {
		req.Lines = append(req.Lines, invoicedomain.LineInput{
			ProductID: entry.Product.ID,
			Quantity:  entry.Quantity,
		})
	}

	created, err := s.invoiceSvc.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()

	s.log.Info("draft finalized",
		zap.String("draft_id", id),
		zap.String("invoice_number", created.InvoiceNumber),
	)

	return created, nil
}

func (s *Service) view(id string, cart *selection.Cart, taxRate, discount decimal.Decimal) View {
	subtotal := money.Subtotal(cart.Lines())
	taxAmount := money.Tax(subtotal, taxRate)

	return View{
		ID:      id,
		Entries: cart.Entries(),
		Totals: Totals{
			Subtotal:       subtotal,
			TaxRate:        taxRate,
			TaxAmount:      taxAmount,
			DiscountAmount: discount,
			TotalAmount:    money.Total(subtotal, taxAmount, discount),
		},
	}
}

func zeroTotals() Totals {
	return Totals{
		Subtotal:       decimal.Zero,
		TaxRate:        invoiceDefaultRate(),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
	}
}

func invoiceDefaultRate() decimal.Decimal {
	return invoiceservice.DefaultTaxRate
}

// Module provides the draft session service.
var Module = fx.Module("draft.service",
	fx.Provide(New),
)
