package product

import "context"

// MutateFunc changes a freshly loaded product inside an atomic update. A
// non-nil error aborts the update and nothing is written.
type MutateFunc func(p *Product) error

// Repository defines persistence behaviours for products.
//
// Lookups by id or SKU return a *NotFoundError when nothing matches. Writes that
// collide on SKU return a *ConflictError.
type Repository interface {
	FindAll(ctx context.Context) ([]*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByCategory(ctx context.Context, category string) ([]*Product, error)
	// FindLowStock returns depleting products with quantity below threshold.
	FindLowStock(ctx context.Context, threshold int) ([]*Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	// Save inserts a new product and sets its ID. Existing rows change only
	// through Update.
	Save(ctx context.Context, product *Product) error
	// Update loads the product, applies fn and stores the result as a single
	// atomic read-modify-write on that row.
	Update(ctx context.Context, id string, fn MutateFunc) (*Product, error)
	Delete(ctx context.Context, id string) error
}
