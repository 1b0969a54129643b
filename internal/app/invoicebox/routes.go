package invoicebox

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/invoicebox/invoicebox/internal/config"
	"github.com/invoicebox/invoicebox/internal/http/handlers/auth/login"
	"github.com/invoicebox/invoicebox/internal/http/handlers/auth/register"
	"github.com/invoicebox/invoicebox/internal/http/handlers/health"
	"github.com/invoicebox/invoicebox/internal/http/handlers/invoice/create"
	invoicelist "github.com/invoicebox/invoicebox/internal/http/handlers/invoice/list"
	"github.com/invoicebox/invoicebox/internal/http/handlers/invoice/update"
	"github.com/invoicebox/invoicebox/internal/http/handlers/reporting/analytics"
	"github.com/invoicebox/invoicebox/internal/http/handlers/reporting/dashboard"
	userslist "github.com/invoicebox/invoicebox/internal/http/handlers/users/list"
	"github.com/invoicebox/invoicebox/internal/http/middlewarectx"
	"github.com/invoicebox/invoicebox/internal/http/spa"
	authservice "github.com/invoicebox/invoicebox/internal/services/auth"
	invoiceservice "github.com/invoicebox/invoicebox/internal/services/invoice"
	reportingservice "github.com/invoicebox/invoicebox/internal/services/reporting"
)

// RegisterRoutes registers all application routes.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, invoiceService *invoiceservice.InvoiceService,
	reportingService *reportingservice.ReportingService, users userslist.Service) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(10), 30)

	// Open endpoints
	r.Post("/register", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Get("/health", health.New(logger).ServeHTTP)

	// Group guarded by JWT authentication
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.AuthMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
		r.Post("/invoices", create.New(logger, invoiceService).ServeHTTP)
		r.Get("/invoices", invoicelist.New(logger, invoiceService).ServeHTTP)
		r.Put("/invoices/{id}", update.New(logger, invoiceService).ServeHTTP)
		r.Get("/dashboard", dashboard.New(logger, reportingService).ServeHTTP)
		r.Get("/analytics", analytics.New(logger, reportingService).ServeHTTP)
		r.Get("/users", userslist.New(logger, users).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Everything else belongs to the front-end bundle.
	r.NotFound(spa.New(cfg.StaticDir).ServeHTTP)
}
