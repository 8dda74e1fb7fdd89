package product

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func validFields() Fields {
	return Fields{
		Name:         "Gaming Mouse",
		SKU:          "LOGI-G502",
		PriceInCents: int64Ptr(4999),
		Quantity:     intPtr(10),
		Category:     "peripherals",
		Depleting:    true,
	}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(validFields())

	require.NoError(t, err)
	assert.Empty(t, p.ID)
	assert.Equal(t, "Gaming Mouse", p.Name)
	assert.Equal(t, "LOGI-G502", p.SKU)
	assert.Equal(t, int64(4999), p.PriceInCents)
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, "PERIPHERALS", p.Category)
	assert.True(t, p.Depleting)
	assert.True(t, p.CreatedAt.IsZero())
}

func TestNewProduct_CollectsAllFieldErrors(t *testing.T) {
	_, err := NewProduct(Fields{Name: "  ", SKU: "lo-99", PriceInCents: int64Ptr(-1)})

	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Reason
	}
	assert.Equal(t, "is required", fields["name"])
	assert.Contains(t, fields["sku"], "must match")
	assert.Equal(t, "can't be negative", fields["priceInCents"])
	assert.Equal(t, "is required", fields["quantity"])
}

func TestValidSKU(t *testing.T) {
	cases := []struct {
		sku  string
		want bool
	}{
		{"LOGI-G502", true},
		{"ABC-12", true},
		{"ABCDEF-A1B2C3", true},
		{"lo-99", false},
		{"ABCDEFG-99", false},
		{"AB-99", false},
		{"ABC-1", false},
		{"ABC-1234567", false},
		{"ABC_123", false},
		{"ABC--12", false},
		{"ABC-g5", false},
	}
	for _, tc := range cases {
		t.Run(tc.sku, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidSKU(tc.sku))
		})
	}
}

func TestFieldsValidate_BlankSKU(t *testing.T) {
	f := validFields()
	f.SKU = "   "

	err := f.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, FieldError{Field: "sku", Reason: "is required"}, verr.Fields[0])
}

func TestSetCategory(t *testing.T) {
	cases := map[string]string{
		"electronics":   "ELECTRONICS",
		"ELECTRONICS":   "ELECTRONICS",
		" Office Gear ": "OFFICE GEAR",
		"":              "",
		"   ":           "",
	}
	for in, want := range cases {
		var p Product
		p.SetCategory(in)
		assert.Equal(t, want, p.Category, "input %q", in)

		p.SetCategory(p.Category)
		assert.Equal(t, want, p.Category, "idempotent for %q", in)
	}
}

func TestAdjustQuantity(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)

	t.Run("applies delta", func(t *testing.T) {
		p := &Product{Quantity: 5}
		p.MarkCreated(created)

		require.NoError(t, p.AdjustQuantity(-5, later))
		assert.Equal(t, 0, p.Quantity)
		assert.Equal(t, later, p.UpdatedAt)
	})

	t.Run("rejects negative result", func(t *testing.T) {
		p := &Product{Quantity: 3}
		p.MarkCreated(created)

		err := p.AdjustQuantity(-4, later)

		require.ErrorIs(t, err, ErrOutOfRange)
		var oerr *OutOfRangeError
		require.True(t, errors.As(err, &oerr))
		assert.Equal(t, 3, oerr.Current)
		assert.Equal(t, -4, oerr.Delta)
		assert.Equal(t, 3, p.Quantity)
		assert.Equal(t, created, p.UpdatedAt)
	})

	t.Run("rejects result above capacity", func(t *testing.T) {
		p := &Product{Quantity: 10}
		p.MarkCreated(created)

		err := p.AdjustQuantity(math.MaxInt, later)

		require.ErrorIs(t, err, ErrOutOfRange)
		var cerr *CapacityError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, 10, cerr.Current)
		assert.Equal(t, math.MaxInt, cerr.Delta)
		assert.Equal(t, MaxQuantity, cerr.Max)
		var oerr *OutOfRangeError
		assert.False(t, errors.As(err, &oerr))
		assert.Equal(t, 10, p.Quantity)
		assert.Equal(t, created, p.UpdatedAt)
	})

	t.Run("reaches capacity exactly", func(t *testing.T) {
		p := &Product{Quantity: 10}

		require.NoError(t, p.AdjustQuantity(MaxQuantity-10, later))
		assert.Equal(t, MaxQuantity, p.Quantity)
	})

	t.Run("rejects large negative delta as below zero", func(t *testing.T) {
		p := &Product{Quantity: 10}

		err := p.AdjustQuantity(math.MinInt, later)

		var oerr *OutOfRangeError
		require.True(t, errors.As(err, &oerr))
		assert.Equal(t, 10, p.Quantity)
	})
}

func TestFieldsValidate_QuantityCeiling(t *testing.T) {
	f := validFields()
	f.Quantity = intPtr(MaxQuantity)
	require.NoError(t, f.Validate())

	f.Quantity = intPtr(MaxQuantity + 1)
	err := f.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Field: "quantity", Reason: "can't exceed 2147483647"}}, verr.Fields)
}

func TestTouch_AlwaysAdvances(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Product{}
	p.MarkCreated(now)

	p.Touch(now)
	assert.True(t, p.UpdatedAt.After(p.CreatedAt))

	prev := p.UpdatedAt
	p.Touch(now.Add(-time.Hour))
	assert.True(t, p.UpdatedAt.After(prev))
}

func TestReplace(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := NewProduct(validFields())
	require.NoError(t, err)
	p.ID = "abc"
	p.MarkCreated(created)

	t.Run("invalid leaves product unchanged", func(t *testing.T) {
		before := *p
		err := p.Replace(Fields{Name: "x"}, created.Add(time.Second))
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, before, *p)
	})

	t.Run("overwrites every field", func(t *testing.T) {
		err := p.Replace(Fields{
			Name:         "Keyboard",
			SKU:          "KEY-K100",
			PriceInCents: int64Ptr(0),
			Quantity:     intPtr(0),
		}, created.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, "abc", p.ID)
		assert.Equal(t, "Keyboard", p.Name)
		assert.Equal(t, "KEY-K100", p.SKU)
		assert.Equal(t, "", p.Category)
		assert.False(t, p.Depleting)
		assert.Equal(t, created, p.CreatedAt)
		assert.Equal(t, created.Add(time.Minute), p.UpdatedAt)
	})
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, (&Product{Quantity: 4, Depleting: true}).IsLowStock(5))
	assert.False(t, (&Product{Quantity: 5, Depleting: true}).IsLowStock(5))
	assert.False(t, (&Product{Quantity: 0, Depleting: false}).IsLowStock(5))
	assert.False(t, (&Product{Quantity: 0, Depleting: false}).IsLowStock(1000))
}
