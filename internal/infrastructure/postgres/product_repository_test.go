package postgres

import (
	"context"
	"os"
	"testing"

	domain "inventory/backend/internal/domain/product"
	"inventory/backend/internal/infrastructure/storetest"

	"github.com/stretchr/testify/require"
)

// TEST_DATABASE_URL points at a disposable database; the products table is
// truncated before every subtest.
func TestProductRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := New(ctx, dsn, PoolOptions{MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migration must be repeatable")

	storetest.Run(t, func(t *testing.T) domain.Repository {
		_, err := db.Pool.Exec(ctx, `TRUNCATE products`)
		require.NoError(t, err)
		return NewProductRepository(db.Pool)
	})
}
