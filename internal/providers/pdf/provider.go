package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Renderer turns an invoice document into a printable artifact.
type Renderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error)
}

// InvoiceDocument carries the display-ready fields for one invoice.
// Amounts are preformatted strings so the renderer never does money math.
type InvoiceDocument struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	PaymentStatus string

	CustomerName    string
	CustomerEmail   string
	CustomerAddress string

	Items []LineItem

	Subtotal       string
	TaxLabel       string
	TaxAmount      string
	DiscountAmount string
	TotalAmount    string
}

// LineItem is one invoice row.
type LineItem struct {
	ProductName string
	Quantity    int64
	UnitPrice   string
	TotalPrice  string
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
