package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/procurahq/procura/internal/product/csv"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductHandler(t *testing.T) {
	productSvc := &fakeProductService{products: map[string]productdomain.Response{}}
	srv := newTestServer(productSvc, &fakeInvoiceService{})

	body := bytes.NewBufferString(`{"name":"Widget","price":"9.99","company":"Acme","address":"1 Main St","contact_number":"555-1234","email":"sales@acme.test"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, productSvc.createCalls)
	assert.Equal(t, "Widget", productSvc.lastCreate.Name)
	assert.Equal(t, "9.99", productSvc.lastCreate.Price.String())
	assert.Equal(t, "sales@acme.test", productSvc.lastCreate.Email)
}

func TestCreateProductHandlerValidationError(t *testing.T) {
	productSvc := &fakeProductService{createErr: productdomain.ErrInvalidEmail}
	srv := newTestServer(productSvc, &fakeInvoiceService{})

	body := bytes.NewBufferString(`{"name":"Widget","price":"9.99","company":"Acme","address":"1 Main St","contact_number":"555-1234","email":"bogus"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "email", resp.Error.Errors[0].Field)
	assert.Equal(t, "invalid_email", resp.Error.Errors[0].Code)
}

func TestGetProductHandlerNotFound(t *testing.T) {
	productSvc := &fakeProductService{products: map[string]productdomain.Response{}}
	srv := newTestServer(productSvc, &fakeInvoiceService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/products/999", nil)
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportProductsHandlerMultipart(t *testing.T) {
	productSvc := &fakeProductService{
		importRes: &productdomain.ImportResult{Imported: 2},
	}
	srv := newTestServer(productSvc, &fakeInvoiceService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "catalog.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,price,company,address,contactNumber,email\nWidget,9.99,Acme,1 Main St,555-1234,sales@acme.test\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, productSvc.importText, "Widget,9.99")

	var resp struct {
		Data productdomain.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Imported)
}

func TestImportProductsHandlerMissingHeaders(t *testing.T) {
	productSvc := &fakeProductService{
		importErr: &csv.MissingHeadersError{Headers: []string{"email", "price"}},
	}
	srv := newTestServer(productSvc, &fakeInvoiceService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/products/import", bytes.NewBufferString("name,company\nWidget,Acme\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_headers")
}

func TestImportProductsHandlerEmptyBody(t *testing.T) {
	productSvc := &fakeProductService{}
	srv := newTestServer(productSvc, &fakeInvoiceService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/products/import", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_file")
}
