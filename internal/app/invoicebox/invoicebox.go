// Package invoicebox assembles the application: storage, cache, services
// and the HTTP server, and runs it until the context is cancelled.
package invoicebox

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/invoicebox/invoicebox/internal/cache"
	"github.com/invoicebox/invoicebox/internal/config"
	"github.com/invoicebox/invoicebox/internal/lib/jwt"
	"github.com/invoicebox/invoicebox/internal/lib/sl"
	"github.com/invoicebox/invoicebox/internal/migrations"
	authservice "github.com/invoicebox/invoicebox/internal/services/auth"
	invoiceservice "github.com/invoicebox/invoicebox/internal/services/invoice"
	reportingservice "github.com/invoicebox/invoicebox/internal/services/reporting"
	"github.com/invoicebox/invoicebox/internal/storage/repository"
	"github.com/invoicebox/invoicebox/internal/storage/seed"
)

// App holds the running parts of the service.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New wires the application from configuration. Migrations run before
// the server is constructed so a schema problem fails startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	reportingService := reportingservice.NewReportingService(db, cacheRedis, logger)
	invoiceService := invoiceservice.NewInvoiceService(db, db, reportingService, logger)

	if cfg.SeedDemoData {
		if err = seed.Run(ctx, logger, db); err != nil {
			logger.Warn("demo data seeding failed", sl.Err(err))
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, invoiceService, reportingService, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully with a bounded timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}
