// Package app wires configuration, adapters, services and transport
// together and owns the server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avoronkov/portfolio-backend/internal/adapter/gcs"
	"github.com/avoronkov/portfolio-backend/internal/adapter/postgres"
	"github.com/avoronkov/portfolio-backend/internal/adapter/postgres/recordstore"
	"github.com/avoronkov/portfolio-backend/internal/auth"
	"github.com/avoronkov/portfolio-backend/internal/config"
	"github.com/avoronkov/portfolio-backend/internal/domain"
	assetsservice "github.com/avoronkov/portfolio-backend/internal/service/assets"
	authservice "github.com/avoronkov/portfolio-backend/internal/service/auth"
	"github.com/avoronkov/portfolio-backend/internal/service/collection"
	profileservice "github.com/avoronkov/portfolio-backend/internal/service/profile"
	siteservice "github.com/avoronkov/portfolio-backend/internal/service/site"
	skillsservice "github.com/avoronkov/portfolio-backend/internal/service/skills"
	"github.com/avoronkov/portfolio-backend/internal/transport/middleware"
	"github.com/avoronkov/portfolio-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects the
// adapters, constructs services and handlers, and serves HTTP until the
// context is cancelled or a termination signal arrives.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.Migrate {
		if err := runMigrations(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	bucket, err := gcs.NewBucket(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer bucket.Close()

	store := recordstore.New(pool)
	txManager := postgres.NewTxManager(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	authSvc := authservice.NewService(logger, cfg.Auth, jwtManager)
	profileSvc := profileservice.NewService(logger, store)
	skillsSvc := skillsservice.NewService(logger, store)
	assetsSvc := assetsservice.NewService(logger, bucket)
	siteSvc := siteservice.NewService(logger, store)

	managers := make(map[string]rest.CollectionManager)
	for _, col := range domain.OrderedCollections() {
		managers[col.Name] = collection.NewManager(logger, col, store, txManager)
	}

	loginLimit := middleware.NewRateLimiter(cfg.Auth.LoginRatePerMin, time.Minute)
	defer loginLimit.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
		Auth:       rest.NewAuthHandler(authSvc, logger),
		Site:       rest.NewSiteHandler(siteSvc, logger),
		Admin:      rest.NewAdminHandler(managers, profileSvc, skillsSvc, assetsSvc, logger),
		Validator:  authSvc,
		LoginLimit: loginLimit,
		CORS:       cfg.CORS,
		Log:        logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
