// Package mysql stores products in MySQL through sqlx.
package mysql

import (
	"context"
	"embed"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Database wraps the sqlx handle together with the normalized DSN.
type Database struct {
	DB  *sqlx.DB
	dsn string
}

// New connects to MySQL. The DSN is forced to parse DATETIME columns as UTC
// time.Time values.
func New(ctx context.Context, dsn string) (*Database, error) {
	normalized, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, "mysql", normalized)
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	return &Database{DB: db, dsn: normalized}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	if db != nil && db.DB != nil {
		_ = db.DB.Close()
	}
}

// Migrate applies every pending embedded migration.
func (db *Database) Migrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "mysql://"+db.dsn)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "parse mysql dsn")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
