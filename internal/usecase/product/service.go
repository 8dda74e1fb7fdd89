package product

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "inventory/backend/internal/domain/product"
)

// Service encapsulates product use cases.
type Service struct {
	repo              domain.Repository
	nowFunc           func() time.Time
	lowStockThreshold int
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.nowFunc = now }
}

// WithLowStockThreshold sets the threshold used when a low-stock query names none.
func WithLowStockThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.lowStockThreshold = threshold
		}
	}
}

// NewService constructs a product service.
func NewService(repo domain.Repository, opts ...Option) *Service {
	s := &Service{
		repo:              repo,
		nowFunc:           time.Now,
		lowStockThreshold: domain.DefaultLowStockThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput contains the payload required for product creation.
type CreateInput struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	PriceInCents *int64 `json:"priceInCents"`
	Quantity     *int   `json:"quantity"`
	Category     string `json:"category"`
	Depleting    bool   `json:"depleting"`
}

// ReplaceInput is a complete replacement record. Absent values overwrite the
// stored ones; a missing depleting flag means false.
type ReplaceInput struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	PriceInCents *int64 `json:"priceInCents"`
	Quantity     *int   `json:"quantity"`
	Category     string `json:"category"`
	Depleting    *bool  `json:"depleting"`
}

func (in ReplaceInput) fields() domain.Fields {
	f := domain.Fields{
		Name:         in.Name,
		SKU:          in.SKU,
		PriceInCents: in.PriceInCents,
		Quantity:     in.Quantity,
		Category:     in.Category,
	}
	if in.Depleting != nil {
		f.Depleting = *in.Depleting
	}
	return f
}

// List retrieves all products, or only those in category when it is non-blank.
func (s *Service) List(ctx context.Context, category string) ([]*domain.Product, error) {
	if normalized := domain.NormalizeCategory(category); normalized != "" {
		return s.repo.FindByCategory(ctx, normalized)
	}
	return s.repo.FindAll(ctx)
}

// Get fetches a product by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	return s.repo.FindByID(ctx, id)
}

// GetBySKU fetches a product by exact SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.NewValidationError("sku", "is required")
	}
	return s.repo.FindBySKU(ctx, sku)
}

// LowStock lists depleting products below threshold. A nil threshold uses the
// service default.
func (s *Service) LowStock(ctx context.Context, threshold *int) ([]*domain.Product, error) {
	limit := s.lowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	return s.repo.FindLowStock(ctx, limit)
}

// Stats computes aggregate inventory value over every product.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(products), nil
}

// Create stores a new product. A SKU already in use is reported as a conflict
// before any other rule is checked.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Product, error) {
	if sku := strings.TrimSpace(input.SKU); sku != "" {
		exists, err := s.repo.ExistsBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.ConflictError{SKU: sku}
		}
	}

	product, err := domain.NewProduct(domain.Fields{
		Name:         input.Name,
		SKU:          input.SKU,
		PriceInCents: input.PriceInCents,
		Quantity:     input.Quantity,
		Category:     input.Category,
		Depleting:    input.Depleting,
	})
	if err != nil {
		return nil, err
	}

	product.MarkCreated(s.now())
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Replace overwrites every mutable field of an existing product. An unknown id
// is reported as not found before the SKU is checked for conflicts.
func (s *Service) Replace(ctx context.Context, id string, input ReplaceInput) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if sku := strings.TrimSpace(input.SKU); sku != "" {
		owner, err := s.repo.FindBySKU(ctx, sku)
		switch {
		case err == nil && owner.ID != id:
			return nil, &domain.ConflictError{SKU: sku}
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	fields := input.fields()
	return s.repo.Update(ctx, id, func(p *domain.Product) error {
		return p.Replace(fields, s.now())
	})
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NewValidationError("id", "is required")
	}
	return s.repo.Delete(ctx, id)
}

// AdjustStock adds delta to the product's quantity atomically. A result below
// zero fails with *domain.OutOfRangeError and the stored record is unchanged.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	return s.repo.Update(ctx, id, func(p *domain.Product) error {
		return p.AdjustQuantity(delta, s.now())
	})
}

// now truncates to microseconds, the finest precision the SQL stores keep.
func (s *Service) now() time.Time {
	return s.nowFunc().UTC().Truncate(time.Microsecond)
}
