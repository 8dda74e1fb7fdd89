package product

import (
	"regexp"
	"strconv"
	"strings"
)

var skuPattern = regexp.MustCompile(`^[A-Z]{3,6}-[A-Z0-9]{2,6}$`)

// Fields is the caller-supplied value set of a product. Price and quantity are
// pointers so an absent value can be told apart from zero.
type Fields struct {
	Name         string
	SKU          string
	PriceInCents *int64
	Quantity     *int
	Category     string
	Depleting    bool
}

// Validate evaluates every field rule and returns a *ValidationError listing
// all failures, or nil when the fields are well-formed.
func (f Fields) Validate() error {
	var failed []FieldError

	if strings.TrimSpace(f.Name) == "" {
		failed = append(failed, FieldError{Field: "name", Reason: "is required"})
	}

	sku := strings.TrimSpace(f.SKU)
	switch {
	case sku == "":
		failed = append(failed, FieldError{Field: "sku", Reason: "is required"})
	case !ValidSKU(sku):
		failed = append(failed, FieldError{Field: "sku", Reason: "must match " + skuPattern.String()})
	}

	switch {
	case f.PriceInCents == nil:
		failed = append(failed, FieldError{Field: "priceInCents", Reason: "is required"})
	case *f.PriceInCents < 0:
		failed = append(failed, FieldError{Field: "priceInCents", Reason: "can't be negative"})
	}

	switch {
	case f.Quantity == nil:
		failed = append(failed, FieldError{Field: "quantity", Reason: "is required"})
	case *f.Quantity < 0:
		failed = append(failed, FieldError{Field: "quantity", Reason: "can't be negative"})
	case *f.Quantity > MaxQuantity:
		failed = append(failed, FieldError{Field: "quantity", Reason: "can't exceed " + strconv.Itoa(MaxQuantity)})
	}

	if len(failed) > 0 {
		return &ValidationError{Fields: failed}
	}
	return nil
}

// ValidSKU reports whether sku has the LETTERS-ALNUM shape, e.g. LOGI-G502.
func ValidSKU(sku string) bool {
	return skuPattern.MatchString(sku)
}
