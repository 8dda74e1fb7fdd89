package product

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a product could not be located.
	ErrNotFound = errors.New("product not found")
	// ErrValidation indicates one or more fields failed validation.
	ErrValidation = errors.New("product validation failed")
	// ErrConflict signals SKU uniqueness constraint breaches.
	ErrConflict = errors.New("product with SKU already exists")
	// ErrOutOfRange indicates a stock adjustment would drive quantity below zero
	// or above MaxQuantity.
	ErrOutOfRange = errors.New("stock adjustment out of range")
)

// NotFoundError carries the identifier or SKU that matched no record.
type NotFoundError struct {
	Key   string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s=%s", e.Key, e.Value)
}

// Is lets errors.Is match against ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundByID builds a not-found error for an id lookup.
func NewNotFoundByID(id string) error {
	return &NotFoundError{Key: "id", Value: id}
}

// NewNotFoundBySKU builds a not-found error for a SKU lookup.
func NewNotFoundBySKU(sku string) error {
	return &NotFoundError{Key: "sku", Value: sku}
}

// FieldError describes a single failed field rule.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every failed field rule of one record.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match against ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

// ConflictError is returned when a SKU is already taken.
type ConflictError struct {
	SKU string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("product with SKU %q already exists", e.SKU)
}

// Is lets errors.Is match against ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// OutOfRangeError reports a rejected stock adjustment.
type OutOfRangeError struct {
	Current int
	Delta   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cannot reduce stock below 0: current=%d, adjustment=%d", e.Current, e.Delta)
}

// Is lets errors.Is match against ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// CapacityError reports a stock adjustment that would push the quantity past
// Max. It matches ErrOutOfRange.
type CapacityError struct {
	Current int
	Delta   int
	Max     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("stock adjustment exceeds maximum quantity %d: current=%d, adjustment=%d", e.Max, e.Current, e.Delta)
}

// Is lets errors.Is match against ErrOutOfRange.
func (e *CapacityError) Is(target error) bool {
	return target == ErrOutOfRange
}
