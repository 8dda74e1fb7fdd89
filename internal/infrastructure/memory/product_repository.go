// Package memory keeps products in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	domain "inventory/backend/internal/domain/product"

	"github.com/google/uuid"
)

// ProductRepository is a thread-safe in-memory domain.Repository. Records are
// cloned on the way in and out so callers never share stored state.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	newID    func() string
}

// NewProductRepository constructs an empty repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
		newID:    uuid.NewString,
	}
}

var _ domain.Repository = (*ProductRepository)(nil)

// FindAll returns all products sorted by name.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.filter(ctx, func(*domain.Product) bool { return true })
}

// FindByID fetches a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.NewNotFoundByID(id)
	}
	return p.Clone(), nil
}

// FindBySKU fetches a product using its SKU.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p := r.bySKU(sku); p != nil {
		return p.Clone(), nil
	}
	return nil, domain.NewNotFoundBySKU(sku)
}

// FindByCategory returns products whose stored category equals category.
func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.filter(ctx, func(p *domain.Product) bool { return p.Category == category })
}

// FindLowStock returns depleting products with quantity below threshold.
func (r *ProductRepository) FindLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return r.filter(ctx, func(p *domain.Product) bool { return p.IsLowStock(threshold) })
}

// ExistsBySKU reports whether any product holds sku.
func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySKU(sku) != nil, nil
}

// Save inserts a product under a new id.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bySKU(product.SKU) != nil {
		return &domain.ConflictError{SKU: product.SKU}
	}
	product.ID = r.newID()
	r.products[product.ID] = product.Clone()
	return nil
}

// Update applies fn to a copy of the stored product under the write lock and
// stores the copy only when fn succeeds.
func (r *ProductRepository) Update(ctx context.Context, id string, fn domain.MutateFunc) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[id]
	if !ok {
		return nil, domain.NewNotFoundByID(id)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	if other := r.bySKU(next.SKU); other != nil && other.ID != id {
		return nil, &domain.ConflictError{SKU: next.SKU}
	}
	r.products[id] = next
	return next.Clone(), nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.NewNotFoundByID(id)
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) bySKU(sku string) *domain.Product {
	for _, p := range r.products {
		if p.SKU == sku {
			return p
		}
	}
	return nil
}

func (r *ProductRepository) filter(ctx context.Context, keep func(*domain.Product) bool) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
