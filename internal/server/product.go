package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/shopspring/decimal"
)

// 1 MiB is plenty for a catalog upload.
const maxImportBytes = 1 << 20

type createProductRequest struct {
	Name          string           `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	Company       string           `json:"company"`
	Address       string           `json:"address"`
	ContactNumber string           `json:"contact_number"`
	Email         string           `json:"email"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Metadata      map[string]any   `json:"metadata"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:          strings.TrimSpace(req.Name),
		Price:         price,
		Company:       strings.TrimSpace(req.Company),
		Address:       strings.TrimSpace(req.Address),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Email:         strings.TrimSpace(req.Email),
		CostPrice:     req.CostPrice,
		Metadata:      req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Search  string `form:"search"`
		SortBy  string `form:"sort_by"`
		OrderBy string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Search:  strings.TrimSpace(query.Search),
		SortBy:  strings.TrimSpace(query.SortBy),
		OrderBy: strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.productSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ImportProducts accepts a CSV as a multipart "file" field or as the
// raw request body.
func (s *Server) ImportProducts(c *gin.Context) {
	text, err := readImportPayload(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(text) == "" {
		AbortWithError(c, newValidationError("file", "empty_file", "uploaded file is empty"))
		return
	}

	result, err := s.productSvc.ImportCSV(c.Request.Context(), text)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func readImportPayload(c *gin.Context) (string, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isProductValidationError(err error) bool {
	switch err {
	case productdomain.ErrInvalidName,
		productdomain.ErrInvalidPrice,
		productdomain.ErrInvalidCompany,
		productdomain.ErrInvalidAddress,
		productdomain.ErrInvalidContact,
		productdomain.ErrInvalidEmail,
		productdomain.ErrInvalidCostPrice,
		productdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
