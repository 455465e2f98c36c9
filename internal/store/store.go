// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/tienda/internal/store/db"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns all products ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]db.Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns nil and no error if no product exists with the given ID.
	FindByID(ctx context.Context, id int32) (*db.Product, error)

	// Create inserts a new product and writes the assigned ID back into it.
	Create(ctx context.Context, product *db.Product) error

	// Update persists size, color, price and description of an existing product.
	// Returns ErrProductDoesNotExist if the row is gone.
	Update(ctx context.Context, product *db.Product) error

	// DeleteByID removes a product by its ID.
	// Deleting a missing product is a no-op.
	DeleteByID(ctx context.Context, id int32) error
}
