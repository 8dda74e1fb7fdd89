package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"inventory/backend/internal/config"
	"inventory/backend/internal/httpserver"
	"inventory/backend/internal/infrastructure"
	"inventory/backend/internal/logging"
	productusecase "inventory/backend/internal/usecase/product"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:  "inventory",
		Usage: "inventory item service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file applied before reading the environment",
				Value:   ".env",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the store schema and exit",
				Action: migrateSchema,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("inventory exited")
	}
}

func setup(c *cli.Context) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func migrateSchema(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	store, err := infrastructure.Open(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(c.Context); err != nil {
		return err
	}
	logger.WithField("driver", store.Driver).Info("schema up to date")
	return nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := infrastructure.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	productService := productusecase.NewService(store.Repository,
		productusecase.WithLowStockThreshold(cfg.LowStockThreshold))
	server := httpserver.NewServer(cfg, productService, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", server.Addr()).Info("HTTP server listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("graceful shutdown failed")
			return err
		}
		logger.Info("graceful shutdown completed")
		return nil
	})
	return g.Wait()
}
