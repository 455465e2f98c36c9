package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// FindAll retrieves all products ordered by ID.
func (p *PgStore) FindAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	if products == nil {
		products = []db.Product{}
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns nil and no error if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int32) (*db.Product, error) {
	product, err := p.q.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Create inserts a new product and sets its ID to the one assigned by the database.
func (p *PgStore) Create(ctx context.Context, product *db.Product) error {
	id, err := p.q.CreateProduct(ctx, db.CreateProductParams{
		Size:        product.Size,
		Color:       product.Color,
		Price:       product.Price,
		Description: product.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id
	return nil
}

// Update persists the mutable columns of a product.
// Returns ErrProductDoesNotExist if the row was removed in the meantime.
func (p *PgStore) Update(ctx context.Context, product *db.Product) error {
	count, err := p.q.UpdateProduct(ctx, db.UpdateProductParams{
		ID:          product.ID,
		Size:        product.Size,
		Color:       product.Color,
		Price:       product.Price,
		Description: product.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if count == 0 {
		return perrors.ErrProductDoesNotExist
	}
	return nil
}

// DeleteByID removes a product by its unique identifier.
func (p *PgStore) DeleteByID(ctx context.Context, id int32) error {
	if _, err := p.q.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
