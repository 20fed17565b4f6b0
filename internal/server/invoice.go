package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/procurahq/procura/internal/invoice/domain"
	"github.com/procurahq/procura/internal/providers/pdf"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Search   string `form:"search"`
		Status   string `form:"status"`
		SortBy   string `form:"sort_by"`
		OrderBy  string `form:"order_by"`
		Page     string `form:"page"`
		PageSize string `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := parseOptionalInt(query.Page)
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid_page", "invalid page"))
		return
	}
	pageSize, err := parseOptionalInt(query.PageSize)
	if err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page size"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{
		Search:   strings.TrimSpace(query.Search),
		Status:   strings.TrimSpace(query.Status),
		SortBy:   strings.TrimSpace(query.SortBy),
		OrderBy:  strings.TrimSpace(query.OrderBy),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateInvoiceStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), id, invoicedomain.PaymentStatus(strings.TrimSpace(req.PaymentStatus)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfRenderer.RenderInvoice(c.Request.Context(), buildInvoiceDocument(inv))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.InvoiceNumber+".pdf"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func buildInvoiceDocument(inv *invoicedomain.Response) pdf.InvoiceDocument {
	doc := pdf.InvoiceDocument{
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.CreatedAt.Format(dateOnlyLayout),
		PaymentStatus: string(inv.PaymentStatus),
		CustomerName:  inv.CustomerName,
		Subtotal:      inv.Subtotal.StringFixed(2),
		TaxLabel:      fmt.Sprintf("Tax (%s%%)", inv.TaxRate.String()),
		TaxAmount:     inv.TaxAmount.StringFixed(2),
		TotalAmount:   inv.TotalAmount.StringFixed(2),
	}
	if inv.DueDate != nil {
		doc.DueDate = inv.DueDate.Format(dateOnlyLayout)
	}
	if inv.CustomerEmail != nil {
		doc.CustomerEmail = *inv.CustomerEmail
	}
	if inv.CustomerAddress != nil {
		doc.CustomerAddress = *inv.CustomerAddress
	}
	if inv.DiscountAmount.IsPositive() {
		doc.DiscountAmount = inv.DiscountAmount.StringFixed(2)
	}

	for _, item := range inv.Items {
		doc.Items = append(doc.Items, pdf.LineItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
		})
	}

	return doc
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidCustomerName,
		invoicedomain.ErrNoLines,
		invoicedomain.ErrInvalidQuantity,
		invoicedomain.ErrInvalidTaxRate,
		invoicedomain.ErrInvalidDiscount,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrInvalidID,
		invoicedomain.ErrProductNotFound:
		return true
	default:
		return false
	}
}
