// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/model"
	"github.com/abgdnv/tienda/internal/store"
	"github.com/abgdnv/tienda/internal/store/db"
	"github.com/abgdnv/tienda/pkg/logger"
	"github.com/abgdnv/tienda/pkg/messaging"
	"github.com/abgdnv/tienda/pkg/messaging/events"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// AddProduct validates and stores a new product.
	// Returns the product with its assigned ID, or nil if it cannot be read back after the write.
	AddProduct(ctx context.Context, product ProductDto) (*ProductDto, error)

	// GetAllProducts returns all products.
	// Returns an empty slice if no products exist.
	GetAllProducts(ctx context.Context) ([]ProductDto, error)

	// GetProductByID retrieves a single product by its ID.
	// Returns nil and no error if no product exists with the given ID.
	GetProductByID(ctx context.Context, id int32) (*ProductDto, error)

	// UpdateProduct overwrites size, color, price and description of an existing product.
	// Returns nil and no error if no product exists with the given ID, also when it is removed before the write.
	UpdateProduct(ctx context.Context, product ProductDto) (*ProductDto, error)

	// DeleteProduct removes a product by its ID.
	// Returns ErrProductDoesNotExist if no product exists with the given ID.
	DeleteProduct(ctx context.Context, id int32) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	created    metric.Int64Counter
	updated    metric.Int64Counter
	deleted    metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("product-service")
	return &Service{
		repository: repo,
		publisher:  publisher,
		created:    mustCounter(meter, "products_created", "Total number of created products"),
		updated:    mustCounter(meter, "products_updated", "Total number of updated products"),
		deleted:    mustCounter(meter, "products_deleted", "Total number of deleted products"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// ProductDto represents the data transfer object for a product.
// ID is assigned by the store and ignored on create.
type ProductDto struct {
	ID          int32           `json:"id"`
	Size        model.Size      `json:"size"        validate:"product_size"`
	Color       model.Color     `json:"color"       validate:"product_color"`
	Price       decimal.Decimal `json:"price"       validate:"nonnegative"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
}

// maxPrice is the first value that no longer fits NUMERIC(18,2).
var maxPrice = decimal.New(1, 16)

// AddProduct validates the product, stores it and reads it back.
func (s *Service) AddProduct(ctx context.Context, product ProductDto) (*ProductDto, error) {
	if product.Price.IsNegative() {
		return nil, perrors.ErrNegativePrice
	}
	price, err := normalizePrice(product.Price)
	if err != nil {
		return nil, err
	}
	product.Price = price
	product.ID = 0
	if !product.Size.IsValid() || !product.Color.IsValid() {
		return nil, perrors.ErrInvalidSizeOrColor
	}

	row := toRow(product)
	if err := s.repository.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	ctx = logger.AppendCtx(ctx, slog.Int("product_id", int(row.ID)))

	stored, err := s.repository.FindByID(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back product with ID %d: %w", row.ID, err)
	}
	if stored == nil {
		slog.WarnContext(ctx, "Created product could not be read back")
		return nil, nil
	}

	product.ID = row.ID
	s.publish(ctx, events.ProductCreatedEvent{ProductEvent: s.newEvent(ctx, product)})
	s.created.Add(ctx, 1)

	return &product, nil
}

// GetAllProducts retrieves a list of all products and returns them as ProductDTOs.
func (s *Service) GetAllProducts(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// GetProductByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) GetProductByID(ctx context.Context, id int32) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if product == nil {
		return nil, nil
	}

	return toDto(product), nil
}

// UpdateProduct copies the mutable fields of product onto the stored row with the same ID.
func (s *Service) UpdateProduct(ctx context.Context, product ProductDto) (*ProductDto, error) {
	if product.Price.IsNegative() {
		return nil, perrors.ErrNegativePrice
	}
	price, err := normalizePrice(product.Price)
	if err != nil {
		return nil, err
	}
	product.Price = price
	ctx = logger.AppendCtx(ctx, slog.Int("product_id", int(product.ID)))

	existing, err := s.repository.FindByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", product.ID, err)
	}
	if !product.Size.IsValid() || !product.Color.IsValid() {
		return nil, perrors.ErrInvalidSizeOrColor
	}
	if existing == nil {
		return nil, nil
	}

	mergeProduct(existing, product)
	if err := s.repository.Update(ctx, existing); err != nil {
		if errors.Is(err, perrors.ErrProductDoesNotExist) {
			// deleted between fetch and write
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update product with ID %d: %w", existing.ID, err)
	}

	updated := toDto(existing)
	s.publish(ctx, events.ProductUpdatedEvent{ProductEvent: s.newEvent(ctx, *updated)})
	s.updated.Add(ctx, 1)

	return updated, nil
}

// DeleteProduct deletes a product by its ID.
func (s *Service) DeleteProduct(ctx context.Context, id int32) error {
	ctx = logger.AppendCtx(ctx, slog.Int("product_id", int(id)))
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if existing == nil {
		return perrors.ErrProductDoesNotExist
	}

	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	s.publish(ctx, events.ProductDeletedEvent{ProductEvent: s.newEvent(ctx, ProductDto{ID: id})})
	s.deleted.Add(ctx, 1)
	return nil
}

// publish sends event and only logs a failure; the operation has already succeeded.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

// newEvent builds the event body for product and attaches the current trace context.
func (s *Service) newEvent(ctx context.Context, product ProductDto) events.ProductEvent {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.ProductEvent{
		Carrier:    carrier,
		ProductID:  product.ID,
		OccurredAt: time.Now().UTC(),
	}
	if product.Size.IsValid() && product.Color.IsValid() {
		event.Size = product.Size.String()
		event.Color = product.Color.String()
		event.Price = product.Price.StringFixed(2)
	}
	return event
}

// normalizePrice rounds price to cents and rejects values the price column cannot hold.
func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	if rounded.Abs().GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, perrors.ErrInvalidPriceFormat
	}
	return rounded, nil
}

// mergeProduct copies the mutable fields of src into dst. ID is never copied.
func mergeProduct(dst *db.Product, src ProductDto) {
	dst.Description = src.Description
	dst.Price = src.Price
	dst.Size = int16(src.Size)
	dst.Color = int16(src.Color)
}

// toRow converts a ProductDto to a store row.
func toRow(product ProductDto) *db.Product {
	return &db.Product{
		ID:          product.ID,
		Size:        int16(product.Size),
		Color:       int16(product.Color),
		Price:       product.Price,
		Description: product.Description,
	}
}

// toDto converts a store row to a ProductDto.
func toDto(product *db.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Size:        model.Size(product.Size),
		Color:       model.Color(product.Color),
		Price:       product.Price,
		Description: product.Description,
	}
}
