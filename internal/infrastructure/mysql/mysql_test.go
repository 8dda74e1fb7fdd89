package mysql

import (
	"fmt"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN("inventory:secret@tcp(localhost:3306)/inventory")
	require.NoError(t, err)

	cfg, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
	assert.Equal(t, "inventory", cfg.DBName)
	assert.Equal(t, "localhost:3306", cfg.Addr)
}

func TestNormalizeDSN_Invalid(t *testing.T) {
	_, err := normalizeDSN("not a dsn")
	assert.Error(t, err)
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, isDuplicateEntry(&mysqldriver.MySQLError{Number: 1062}))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert: %w", &mysqldriver.MySQLError{Number: 1062})))
	assert.False(t, isDuplicateEntry(&mysqldriver.MySQLError{Number: 1452}))
	assert.False(t, isDuplicateEntry(fmt.Errorf("boom")))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_products.up.sql")
	assert.Contains(t, names, "000001_create_products.down.sql")
}
