package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/procurahq/procura/internal/config"
	"github.com/procurahq/procura/internal/draft"
	"github.com/procurahq/procura/internal/events"
	invoicedomain "github.com/procurahq/procura/internal/invoice/domain"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/internal/providers/pdf"
	"github.com/procurahq/procura/pkg/listview"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeProductService struct {
	products    map[string]productdomain.Response
	createCalls int
	lastCreate  productdomain.CreateRequest
	createErr   error
	importText  string
	importRes   *productdomain.ImportResult
	importErr   error
}

func (f *fakeProductService) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Response, error) {
	_ = ctx
	f.createCalls++
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &productdomain.Response{
		ID:    "101",
		Name:  req.Name,
		Price: req.Price,
	}, nil
}

func (f *fakeProductService) List(ctx context.Context, req productdomain.ListRequest) ([]productdomain.Response, error) {
	_ = ctx
	_ = req
	out := make([]productdomain.Response, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductService) Get(ctx context.Context, id string) (*productdomain.Response, error) {
	_ = ctx
	p, ok := f.products[id]
	if !ok {
		return nil, productdomain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductService) Update(ctx context.Context, req productdomain.UpdateRequest) (*productdomain.Response, error) {
	_ = ctx
	p, ok := f.products[req.ID]
	if !ok {
		return nil, productdomain.ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	return &p, nil
}

func (f *fakeProductService) ImportCSV(ctx context.Context, text string) (*productdomain.ImportResult, error) {
	_ = ctx
	f.importText = text
	if f.importErr != nil {
		return nil, f.importErr
	}
	if f.importRes != nil {
		return f.importRes, nil
	}
	return &productdomain.ImportResult{}, nil
}

type fakeInvoiceService struct {
	invoices   map[string]invoicedomain.Response
	lastCreate invoicedomain.CreateRequest
	lastList   invoicedomain.ListRequest
	createErr  error
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Response, error) {
	_ = ctx
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &invoicedomain.Response{
		ID:            "900",
		InvoiceNumber: "INV-20250601-0001",
		CustomerName:  req.CustomerName,
		CreatedAt:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListRequest) (*invoicedomain.ListResponse, error) {
	_ = ctx
	f.lastList = req
	out := make([]invoicedomain.Response, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return &invoicedomain.ListResponse{
		PageInfo: listview.PageInfo{Page: 1, PageSize: invoicedomain.DefaultPageSize, TotalCount: len(out), TotalPages: 1},
		Invoices: out,
	}, nil
}

func (f *fakeInvoiceService) Get(ctx context.Context, id string) (*invoicedomain.Response, error) {
	_ = ctx
	inv, ok := f.invoices[id]
	if !ok {
		return nil, invoicedomain.ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInvoiceService) UpdateStatus(ctx context.Context, id string, status invoicedomain.PaymentStatus) (*invoicedomain.Response, error) {
	_ = ctx
	if !status.Valid() {
		return nil, invoicedomain.ErrInvalidStatus
	}
	inv, ok := f.invoices[id]
	if !ok {
		return nil, invoicedomain.ErrNotFound
	}
	inv.PaymentStatus = status
	f.invoices[id] = inv
	return &inv, nil
}

func newTestServer(productSvc productdomain.Service, invoiceSvc invoicedomain.Service) *Server {
	return newTestServerWithFeed(productSvc, invoiceSvc, events.NewHub())
}

func newTestServerWithFeed(productSvc productdomain.Service, invoiceSvc invoicedomain.Service, feed *events.Hub) *Server {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{Environment: "test"},
		Log:         zap.NewNop(),
		ProductSvc:  productSvc,
		InvoiceSvc:  invoiceSvc,
		DraftSvc:    draft.New(draft.Params{Log: zap.NewNop(), ProductSvc: productSvc, InvoiceSvc: invoiceSvc}),
		PDFRenderer: pdf.New(),
		ProductFeed: feed,
	})
}

func testProduct(id, name string, price string) productdomain.Response {
	return productdomain.Response{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}
