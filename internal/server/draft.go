package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/procurahq/procura/internal/invoice/domain"
	invoiceservice "github.com/procurahq/procura/internal/invoice/service"
	"github.com/shopspring/decimal"
)

func (s *Server) CreateDraft(c *gin.Context) {
	view := s.draftSvc.Create()
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// GetDraft recomputes totals with the caller's working tax rate and
// discount so the preview tracks the form live.
func (s *Server) GetDraft(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	taxRate, err := parseOptionalDecimal(c.Query("tax_rate"))
	if err != nil {
		AbortWithError(c, newValidationError("tax_rate", "invalid_tax_rate", "invalid tax rate"))
		return
	}
	discount, err := parseOptionalDecimal(c.Query("discount_amount"))
	if err != nil {
		AbortWithError(c, newValidationError("discount_amount", "invalid_discount", "invalid discount"))
		return
	}

	rate := invoiceservice.DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}
	disc := decimal.Zero
	if discount != nil {
		disc = *discount
	}

	view, err := s.draftSvc.Get(id, rate, disc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

type selectDraftItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) SelectDraftItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	productID := strings.TrimSpace(c.Param("productId"))

	var req selectDraftItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.draftSvc.SelectItem(c.Request.Context(), id, productID, req.Quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

type setDraftQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) SetDraftItemQuantity(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	productID := strings.TrimSpace(c.Param("productId"))

	var req setDraftQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Quantity < 1 {
		AbortWithError(c, newValidationError("quantity", "invalid_quantity", "quantity must be at least 1"))
		return
	}

	view, err := s.draftSvc.SetQuantity(id, productID, req.Quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) DeselectDraftItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	productID := strings.TrimSpace(c.Param("productId"))

	view, err := s.draftSvc.DeselectItem(id, productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) FinalizeDraft(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req invoicedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	// Lines come from the session, never from the request body.
	req.Lines = nil

	resp, err := s.draftSvc.Finalize(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
