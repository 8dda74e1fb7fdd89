// Package storetest holds the behaviour every product store must share. Store
// packages run it from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "inventory/backend/internal/domain/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) domain.Repository

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, r domain.Repository, name, sku, category string, qty int, depleting bool) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:         name,
		SKU:          sku,
		PriceInCents: 100,
		Quantity:     qty,
		Category:     category,
		Depleting:    depleting,
	}
	p.MarkCreated(created)
	require.NoError(t, r.Save(context.Background(), p))
	return p
}

// Run exercises newRepo against the shared repository contract.
func Run(t *testing.T, newRepo Factory) {
	t.Run("Save assigns id and round-trips", func(t *testing.T) {
		r := newRepo(t)
		p := seed(t, r, "Mouse", "LOGI-G502", "PERIPHERALS", 3, true)
		require.NotEmpty(t, p.ID)

		got, err := r.FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("Save rejects duplicate SKU", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		seed(t, r, "Mouse", "LOGI-G502", "", 1, false)

		dup := &domain.Product{Name: "Other", SKU: "LOGI-G502", Quantity: 1}
		dup.MarkCreated(created)
		err := r.Save(ctx, dup)

		var conflict *domain.ConflictError
		require.True(t, errors.As(err, &conflict), "got %v", err)
		assert.Equal(t, "LOGI-G502", conflict.SKU)
		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Finders filter and order by name", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		seed(t, r, "Cable", "CAB-01", "ELECTRONICS", 2, true)
		seed(t, r, "Adapter", "ADP-01", "ELECTRONICS", 0, false)
		seed(t, r, "Desk", "DESK-01", "FURNITURE", 9, true)

		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Adapter", "Cable", "Desk"}, []string{all[0].Name, all[1].Name, all[2].Name})

		byCat, err := r.FindByCategory(ctx, "ELECTRONICS")
		require.NoError(t, err)
		require.Len(t, byCat, 2)
		assert.Equal(t, "Adapter", byCat[0].Name)

		none, err := r.FindByCategory(ctx, "electronics")
		require.NoError(t, err)
		assert.Empty(t, none)

		low, err := r.FindLowStock(ctx, 5)
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, "CAB-01", low[0].SKU)

		low, err = r.FindLowStock(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, low, 2)

		_, err = r.FindBySKU(ctx, "NOPE-00")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		exists, err := r.ExistsBySKU(ctx, "ADP-01")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = r.ExistsBySKU(ctx, "NOPE-00")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Update writes mutation", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		p := seed(t, r, "Mouse", "LOGI-G502", "", 3, false)
		later := created.Add(time.Minute)

		updated, err := r.Update(ctx, p.ID, func(p *domain.Product) error {
			return p.AdjustQuantity(4, later)
		})
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)

		got, err := r.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Quantity)
		assert.Equal(t, later, got.UpdatedAt)
		assert.Equal(t, created, got.CreatedAt)
	})

	t.Run("Update rolls back rejected mutation", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		p := seed(t, r, "Mouse", "LOGI-G502", "", 3, false)

		_, err := r.Update(ctx, p.ID, func(p *domain.Product) error {
			p.Quantity = 0
			return &domain.OutOfRangeError{Current: 3, Delta: -4}
		})
		require.ErrorIs(t, err, domain.ErrOutOfRange)

		got, err := r.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("Update on missing id is not found", func(t *testing.T) {
		r := newRepo(t)
		called := false

		_, err := r.Update(context.Background(), "00000000-0000-0000-0000-000000000000", func(*domain.Product) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, called)
	})

	t.Run("Update onto taken SKU is a conflict", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		mouse := seed(t, r, "Mouse", "LOGI-G502", "", 3, false)
		seed(t, r, "Desk", "DESK-01", "", 1, false)

		_, err := r.Update(ctx, mouse.ID, func(p *domain.Product) error {
			p.SKU = "DESK-01"
			return nil
		})

		var conflict *domain.ConflictError
		require.True(t, errors.As(err, &conflict), "got %v", err)
		got, err := r.FindByID(ctx, mouse.ID)
		require.NoError(t, err)
		assert.Equal(t, "LOGI-G502", got.SKU)
	})

	t.Run("Concurrent updates are not lost", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		p := seed(t, r, "Mouse", "LOGI-G502", "", 0, false)

		const workers = 20
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				_, err := r.Update(ctx, p.ID, func(p *domain.Product) error {
					p.Quantity++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := r.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, workers, got.Quantity)
	})

	t.Run("Delete", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		p := seed(t, r, "Mouse", "LOGI-G502", "", 1, false)

		assert.ErrorIs(t, r.Delete(ctx, "00000000-0000-0000-0000-000000000000"), domain.ErrNotFound)
		all, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		require.NoError(t, r.Delete(ctx, p.ID))
		_, err = r.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
