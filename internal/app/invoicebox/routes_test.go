package invoicebox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/invoicebox/invoicebox/internal/config"
	"github.com/invoicebox/invoicebox/internal/lib/jwt"
	"github.com/invoicebox/invoicebox/internal/models"
	authservice "github.com/invoicebox/invoicebox/internal/services/auth"
	invoiceservice "github.com/invoicebox/invoicebox/internal/services/invoice"
	reportingservice "github.com/invoicebox/invoicebox/internal/services/reporting"
)

type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) ListPurchasers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type LedgerMock struct {
	mock.Mock
}

func (m *LedgerMock) CreateInvoice(ctx context.Context, invoice models.Invoice) (int64, error) {
	args := m.Called(ctx, invoice)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LedgerMock) GetInvoiceByID(ctx context.Context, id int64) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *LedgerMock) ListInvoicesForUser(ctx context.Context, userID int64, role string) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *LedgerMock) UpdateInvoiceStatus(ctx context.Context, id int64, status string,
	paymentReference *string, paymentDate *time.Time) error {
	args := m.Called(ctx, id, status, paymentReference, paymentDate)
	return args.Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	users := new(UsersMock)
	ledger := new(LedgerMock)
	cacheMock := new(CacheMock)

	authService := authservice.NewAuthService(users, jwt.NewJWTMaker("test-secret", time.Minute))
	reportingService := reportingservice.NewReportingService(ledger, cacheMock, logger)
	invoiceService := invoiceservice.NewInvoiceService(ledger, users, reportingService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &config.Config{}, authService, invoiceService, reportingService, users)
	return router
}

func TestRegisterRoutes_RootMountedEndpoints(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "register is reachable at the root",
			method:         http.MethodPost,
			target:         "/register",
			body:           "{invalid",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "login is reachable at the root",
			method:         http.MethodPost,
			target:         "/login",
			body:           "{invalid",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "health is reachable at the root",
			method:         http.MethodGet,
			target:         "/health",
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name:           "invoices requires a token",
			method:         http.MethodGet,
			target:         "/invoices",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:           "dashboard requires a token",
			method:         http.MethodGet,
			target:         "/dashboard",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:           "users requires a token",
			method:         http.MethodGet,
			target:         "/users",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:           "api-prefixed paths are unknown endpoints",
			method:         http.MethodPost,
			target:         "/api/register",
			body:           "{}",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "endpoint not found",
		},
		{
			name:           "unknown path without a bundle answers 404",
			method:         http.MethodGet,
			target:         "/some/client/route",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "static files not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestRegisterRoutes_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
