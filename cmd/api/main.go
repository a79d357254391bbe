package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/credential-service/internal/api/http"
	"github.com/spec-kit/credential-service/internal/api/http/handlers"
	"github.com/spec-kit/credential-service/internal/auth"
	"github.com/spec-kit/credential-service/internal/config"
	"github.com/spec-kit/credential-service/internal/observability"
	"github.com/spec-kit/credential-service/internal/persistence"
	"github.com/spec-kit/credential-service/internal/repository"
	"github.com/spec-kit/credential-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := openReferenceSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open reference source", zap.Error(err))
	}
	defer deps.close()

	startupCtx, startupCancel := context.WithTimeout(ctx, 10*time.Second)
	reference, err := auth.LoadReferenceCredential(startupCtx, cfg.Reference, deps.repo)
	startupCancel()
	if err != nil {
		logger.Fatal("failed to load reference credential", zap.Error(err))
	}
	logger.Info("reference credential loaded",
		zap.String("source", string(cfg.Reference.Source)),
		zap.String("username", reference.Username))

	verifier := auth.NewCredentialVerifier(reference)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		LoginPath: cfg.App.LoginPath,
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.pingers),
		Login:     handlers.NewLoginHandler(verifier, metrics),
		Metrics:   observability.MetricsHandler(registry),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("login_path", cfg.App.LoginPath))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// referenceDeps holds the backends a stored reference source needs.
type referenceDeps struct {
	repo    repository.ReferenceCredentialRepository
	pingers map[string]handlers.Pinger
	closers []func()
}

func (d *referenceDeps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func openReferenceSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*referenceDeps, error) {
	deps := &referenceDeps{pingers: map[string]handlers.Pinger{}}

	switch cfg.Reference.Source {
	case config.ReferenceSourcePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		deps.closers = append(deps.closers, pg.Close)
		deps.pingers["postgres"] = pg

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
				deps.close()
				return nil, err
			}
		}
		deps.repo = repository.NewPostgresReferenceRepository(pg.PoolHandle())
	case config.ReferenceSourceRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, rdb.Close)
		deps.pingers["redis"] = rdb
		deps.repo = repository.NewRedisReferenceRepository(rdb.Client, cfg.Redis.KeyPrefix)
	}

	return deps, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
