package product

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLowStockThreshold applies when a low-stock query names no threshold.
const DefaultLowStockThreshold = 5

// MaxQuantity is the largest stock count a product can hold. It matches the
// 32-bit quantity columns of the SQL stores.
const MaxQuantity = math.MaxInt32

// Product captures the state of an individual inventory item.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	PriceInCents int64     `json:"priceInCents"`
	Quantity     int       `json:"quantity"`
	Category     string    `json:"category"`
	Depleting    bool      `json:"depleting"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewProduct validates the fields and builds a product that has not been
// persisted yet: ID and timestamps are left zero.
func NewProduct(f Fields) (*Product, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p := &Product{}
	p.assign(f)
	return p, nil
}

// Replace overwrites every mutable field with f after validation. Nothing is
// changed when validation fails.
func (p *Product) Replace(f Fields, now time.Time) error {
	if err := f.Validate(); err != nil {
		return err
	}
	p.assign(f)
	p.Touch(now)
	return nil
}

func (p *Product) assign(f Fields) {
	p.Name = strings.TrimSpace(f.Name)
	p.SKU = strings.TrimSpace(f.SKU)
	p.PriceInCents = *f.PriceInCents
	p.Quantity = *f.Quantity
	p.SetCategory(f.Category)
	p.Depleting = f.Depleting
}

// SetCategory stores the category in its normalized upper-case form.
func (p *Product) SetCategory(category string) {
	p.Category = NormalizeCategory(category)
}

// AdjustQuantity applies a signed delta to the stock count. A result below
// zero is rejected with *OutOfRangeError and one above MaxQuantity with
// *CapacityError. The product is left untouched on either failure.
func (p *Product) AdjustQuantity(delta int, now time.Time) error {
	switch {
	case delta < -p.Quantity:
		return &OutOfRangeError{Current: p.Quantity, Delta: delta}
	case delta > MaxQuantity-p.Quantity:
		return &CapacityError{Current: p.Quantity, Delta: delta, Max: MaxQuantity}
	}
	p.Quantity += delta
	p.Touch(now)
	return nil
}

// IsLowStock reports whether the product is tracked for depletion and has
// fewer than threshold units left.
func (p *Product) IsLowStock(threshold int) bool {
	return p.Depleting && p.Quantity < threshold
}

// MarkCreated stamps a product on its first persistence.
func (p *Product) MarkCreated(now time.Time) {
	p.CreatedAt = now
	p.UpdatedAt = now
}

// Touch refreshes UpdatedAt. The timestamp always moves forward, even when the
// clock reports an instant at or before the previous update.
func (p *Product) Touch(now time.Time) {
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Microsecond)
	}
	p.UpdatedAt = now
}

// Clone returns a copy that shares no state with p.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// NormalizeCategory trims and upper-cases a category. The empty category stays
// empty and means "unspecified".
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	// A Caser holds state, so one is built per call.
	return cases.Upper(language.Und).String(category)
}
