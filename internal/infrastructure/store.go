// Package infrastructure selects and opens the configured product store.
package infrastructure

import (
	"context"

	"inventory/backend/internal/config"
	domain "inventory/backend/internal/domain/product"
	"inventory/backend/internal/infrastructure/memory"
	"inventory/backend/internal/infrastructure/mysql"
	"inventory/backend/internal/infrastructure/postgres"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store is an opened product repository together with its lifecycle hooks.
type Store struct {
	Driver     string
	Repository domain.Repository

	migrate func(context.Context) error
	close   func()
}

// Migrate applies the store schema. It is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

// Close releases the store's connections.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects the store named by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Store, error) {
	log := logger.WithField("driver", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		log.Info("connected to postgres")
		return &Store{
			Driver:     cfg.StoreDriver,
			Repository: postgres.NewProductRepository(db.Pool),
			migrate:    db.Migrate,
			close:      db.Close,
		}, nil

	case config.StoreMySQL:
		db, err := mysql.New(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, errors.Wrap(err, "open mysql")
		}
		log.Info("connected to mysql")
		return &Store{
			Driver:     cfg.StoreDriver,
			Repository: mysql.NewProductRepository(db.DB),
			migrate:    db.Migrate,
			close:      db.Close,
		}, nil

	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return &Store{
			Driver:     cfg.StoreDriver,
			Repository: memory.NewProductRepository(),
		}, nil
	}
	return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
}
