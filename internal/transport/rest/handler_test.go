package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/model"
	"github.com/abgdnv/tienda/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product  *service.ProductDto
	products []service.ProductDto
	error    error
	received *service.ProductDto
}

func (m *mockProductService) AddProduct(_ context.Context, p service.ProductDto) (*service.ProductDto, error) {
	m.received = &p
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) GetAllProducts(_ context.Context) ([]service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductService) GetProductByID(_ context.Context, _ int32) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) UpdateProduct(_ context.Context, p service.ProductDto) (*service.ProductDto, error) {
	m.received = &p
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) DeleteProduct(_ context.Context, _ int32) error {
	return m.error
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func ptr(s string) *string { return &s }

// serve routes req through a chi router with the handler's routes registered.
func serve(t *testing.T, svc service.ProductService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

var redShirt = service.ProductDto{
	ID:          1,
	Size:        model.SizeM,
	Color:       model.ColorRed,
	Price:       decimal.RequireFromString("100.00"),
	Description: ptr("Red Shirt"),
}

func Test_ProductAPI_GetAllProducts(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - products found",
			mockService:  mockProductService{products: []service.ProductDto{redShirt}},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"size":"M","color":"Red","price":"100","description":"Red Shirt"}]`,
		},
		{
			name:         "Success - empty list",
			mockService:  mockProductService{products: []service.ProductDto{}},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - service error",
			mockService:  mockProductService{error: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/product/GetAllProducts", nil)
			// when
			rr := serve(t, &tc.mockService, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_ProductAPI_GetProductByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mockService:  mockProductService{product: &redShirt},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, redShirt),
		},
		{
			name:         "Error - product not found",
			mockService:  mockProductService{},
			productID:    "2",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 2 not found"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockProductService{},
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: abc"}),
		},
		{
			name:         "Error - service error",
			mockService:  mockProductService{error: errors.New("db down")},
			productID:    "1",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/api/product/GetProductById/"+tc.productID, nil)
			// when
			rr := serve(t, &tc.mockService, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_ProductAPI_AddProduct(t *testing.T) {
	testCases := []struct {
		name             string
		mockService      mockProductService
		body             string
		expectedCode     int
		expectedBody     string
		expectedLocation string
	}{
		{
			name:             "Success - product created",
			mockService:      mockProductService{product: &redShirt},
			body:             `{"size":"M","color":"Red","price":100.00,"description":"Red Shirt"}`,
			expectedCode:     http.StatusCreated,
			expectedBody:     toJSON(t, redShirt),
			expectedLocation: "/api/product/GetProductById/1",
		},
		{
			name:             "Success - ordinal enums and string price",
			mockService:      mockProductService{product: &redShirt},
			body:             `{"size":2,"color":0,"price":"100.00","description":"Red Shirt"}`,
			expectedCode:     http.StatusCreated,
			expectedBody:     toJSON(t, redShirt),
			expectedLocation: "/api/product/GetProductById/1",
		},
		{
			name:         "Error - malformed json",
			mockService:  mockProductService{},
			body:         `{"size":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: invalidRequestBody}),
		},
		{
			name:         "Error - unknown size name",
			mockService:  mockProductService{},
			body:         `{"size":"XXXL","color":"Red","price":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: invalidRequestBody}),
		},
		{
			name:         "Error - payload shape",
			mockService:  mockProductService{},
			body:         `{"size":9,"color":10,"price":-1,"description":"` + strings.Repeat("x", 1001) + `"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"Size":        "failed on rule: product_size",
				"Color":       "failed on rule: product_color",
				"Price":       "failed on rule: nonnegative",
				"Description": "failed on rule: max",
			}}),
		},
		{
			name:         "Error - negative price below float precision",
			mockService:  mockProductService{product: &redShirt},
			body:         `{"size":"M","color":"Red","price":"-1e-400"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{"Price": "failed on rule: nonnegative"}}),
		},
		{
			name:         "Error - negative price that rounds to zero",
			mockService:  mockProductService{product: &redShirt},
			body:         `{"size":"M","color":"Red","price":"-0.004"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{"Price": "failed on rule: nonnegative"}}),
		},
		{
			name:         "Error - domain validation surfaces as 500",
			mockService:  mockProductService{error: perrors.ErrInvalidPriceFormat},
			body:         `{"size":"M","color":"Red","price":1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
		{
			name:         "Error - product not readable after write",
			mockService:  mockProductService{},
			body:         `{"size":"M","color":"Red","price":1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPost, "/api/product/AddProduct", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			// when
			rr := serve(t, &tc.mockService, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
		})
	}
}

func Test_ProductAPI_AddProduct_DecodesPayload(t *testing.T) {
	// given
	mockService := &mockProductService{product: &redShirt}
	body := `{"id":55,"size":"xl","color":"purple","price":"12.5","description":"Tee"}`
	req := httptest.NewRequest(http.MethodPost, "/api/product/AddProduct", strings.NewReader(body))

	// when
	rr := serve(t, mockService, req)

	// then
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, mockService.received)
	assert.Equal(t, model.SizeXL, mockService.received.Size)
	assert.Equal(t, model.ColorPurple, mockService.received.Color)
	assert.Equal(t, "12.50", mockService.received.Price.StringFixed(2))
	assert.Equal(t, "Tee", *mockService.received.Description)
}

func Test_ProductAPI_UpdateProduct(t *testing.T) {
	updated := service.ProductDto{ID: 1, Size: model.SizeL, Color: model.ColorBlue, Price: decimal.RequireFromString("150"), Description: ptr("New")}
	testCases := []struct {
		name         string
		mockService  mockProductService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product updated",
			mockService:  mockProductService{product: &updated},
			body:         `{"id":1,"size":"L","color":"Blue","price":150.00,"description":"New"}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, updated),
		},
		{
			name:         "Error - product not found",
			mockService:  mockProductService{},
			body:         `{"id":404,"size":"L","color":"Blue","price":150.00}`,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product not found..."}),
		},
		{
			name:         "Error - malformed json",
			mockService:  mockProductService{},
			body:         `not json`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: invalidRequestBody}),
		},
		{
			name:         "Error - payload shape",
			mockService:  mockProductService{},
			body:         `{"id":1,"size":"L","color":"Blue","price":-5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{"Price": "failed on rule: nonnegative"}}),
		},
		{
			name:         "Error - negative price from service surfaces as 500",
			mockService:  mockProductService{error: perrors.ErrNegativePrice},
			body:         `{"id":1,"size":"L","color":"Blue","price":1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
		{
			name:         "Error - service error",
			mockService:  mockProductService{error: errors.New("db down")},
			body:         `{"id":1,"size":"L","color":"Blue","price":1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPut, "/api/product/UpdateProduct", strings.NewReader(tc.body))
			// when
			rr := serve(t, &tc.mockService, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_ProductAPI_DeleteProduct(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product deleted",
			mockService:  mockProductService{},
			productID:    "1",
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Error - not found surfaces as 500 with message",
			mockService:  mockProductService{error: perrors.ErrProductDoesNotExist},
			productID:    "1",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "product does not exist"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockProductService{},
			productID:    "x1",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: x1"}),
		},
		{
			name:         "Error - service error",
			mockService:  mockProductService{error: errors.New("db down")},
			productID:    "1",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: genericErrorMessage}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodDelete, "/api/product/DeleteProduct/"+tc.productID, nil)
			// when
			rr := serve(t, &tc.mockService, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody == "" {
				assert.Empty(t, rr.Body.String())
				return
			}
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_ProductAPI_HealthCheck(t *testing.T) {
	rr := serve(t, &mockProductService{}, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
