// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/service"
	"github.com/abgdnv/tienda/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	genericErrorMessage = "An error occurred while processing the request. Please try again later."
	updateNotFound      = "Product not found..."
	invalidRequestBody  = "Invalid request body"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: NewValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/product", func(r chi.Router) {
		r.Get("/GetAllProducts", h.GetAllProducts)
		r.Get("/GetProductById/{id}", h.GetProductByID)
		r.Post("/AddProduct", h.AddProduct)
		r.Put("/UpdateProduct", h.UpdateProduct)
		r.Delete("/DeleteProduct/{id}", h.DeleteProduct)
	})

	r.Get("/healthz", h.HealthCheck)
}

// GetAllProducts retrieves a list of all products.
func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// GetProductByID retrieves a product by its ID.
func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	if found == nil {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// AddProduct handles the creation of a new product.
// Domain validation failures from the service surface as 500, only payload shape errors are 400.
// A product that cannot be read back after the write is answered with 500, not 201.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productDto service.ProductDto
	if !h.decodeAndValidate(w, r, mLogger, &productDto) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productDto)

	created, err := h.service.AddProduct(r.Context(), productDto)
	if err != nil {
		h.logServiceError(r, mLogger, "Error creating product", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	if created == nil {
		mLogger.ErrorContext(r.Context(), "Created product could not be read back")
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID)
	w.Header().Set("Location", fmt.Sprintf("/api/product/GetProductById/%d", created.ID))
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// UpdateProduct overwrites an existing product with the request body.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productDto service.ProductDto
	if !h.decodeAndValidate(w, r, mLogger, &productDto) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", productDto.ID)

	updated, err := h.service.UpdateProduct(r.Context(), productDto)
	if err != nil {
		h.logServiceError(r, mLogger, "Error updating product", err, "ID", productDto.ID)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	if updated == nil {
		mLogger.WarnContext(r.Context(), "Product not found for update", "ID", productDto.ID)
		web.RespondError(w, mLogger, http.StatusNotFound, updateNotFound)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteProduct deletes a product by its ID.
// A missing product is reported as 500 carrying the not-found message.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		var notFound *perrors.NotFoundError
		if errors.As(err, &notFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusInternalServerError, notFound.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate reads the JSON body into dst and checks its shape.
// On failure a 400 response has already been written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, invalidRequestBody)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, invalidRequestBody)
		return false
	}
	return true
}

// logServiceError logs domain validation failures at warn level and everything else at error level.
func (h *Handler) logServiceError(r *http.Request, mLogger *slog.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err)
	var validationErr *perrors.ValidationError
	if errors.As(err, &validationErr) {
		mLogger.WarnContext(r.Context(), msg, args...)
		return
	}
	mLogger.ErrorContext(r.Context(), msg, args...)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
