package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	perrors "github.com/abgdnv/tienda/internal/errors"
	"github.com/abgdnv/tienda/internal/store/db"
)

// MemoryStore implements ProductStore using an in-memory map.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int32]db.Product
	nextID   int32
}

// NewMemoryStore creates an empty in-memory ProductStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int32]db.Product),
		nextID:   1,
	}
}

// FindAll retrieves all products ordered by ID.
func (s *MemoryStore) FindAll(_ context.Context) ([]db.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]db.Product, 0, len(s.products))
	for _, id := range slices.Sorted(maps.Keys(s.products)) {
		list = append(list, clone(s.products[id]))
	}
	return list, nil
}

// FindByID retrieves a product by its ID, nil if absent.
func (s *MemoryStore) FindByID(_ context.Context, id int32) (*db.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	p = clone(p)
	return &p, nil
}

// Create stores the product under the next free ID.
func (s *MemoryStore) Create(_ context.Context, product *db.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextID
	s.nextID++
	s.products[product.ID] = clone(*product)
	return nil
}

// Update replaces the stored product with the same ID.
func (s *MemoryStore) Update(_ context.Context, product *db.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return perrors.ErrProductDoesNotExist
	}
	s.products[product.ID] = clone(*product)
	return nil
}

// DeleteByID removes a product by its ID.
func (s *MemoryStore) DeleteByID(_ context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

// clone detaches the description pointer from the caller's copy.
func clone(p db.Product) db.Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}
