package mysql

import (
	"context"
	"os"
	"testing"

	domain "inventory/backend/internal/domain/product"
	"inventory/backend/internal/infrastructure/storetest"

	"github.com/stretchr/testify/require"
)

// TEST_MYSQL_DSN points at a disposable database; the products table is
// emptied before every subtest.
func TestProductRepository(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	db, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migration must be repeatable")

	storetest.Run(t, func(t *testing.T) domain.Repository {
		_, err := db.DB.ExecContext(ctx, `DELETE FROM products`)
		require.NoError(t, err)
		return NewProductRepository(db.DB)
	})
}
