package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/invoicebox/invoicebox/internal/lib/invoicenumber"
	"github.com/invoicebox/invoicebox/internal/migrations"
	"github.com/invoicebox/invoicebox/internal/models"
)

// setupTestDatabase starts a throwaway postgres container, applies the
// migrations and returns a connected Storage.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory inserts fixture rows through the repository itself.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role string) int64 {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	})
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CreateInvoice(t *testing.T, providerID, purchaserID int64,
	amount float64, currency, status string, dateCreated time.Time) int64 {
	t.Helper()
	id, err := f.storage.CreateInvoice(context.Background(), models.Invoice{
		InvoiceNumber: invoicenumber.New(),
		Title:         "Test invoice",
		Description:   "Fixture",
		Amount:        amount,
		Currency:      currency,
		ProviderID:    providerID,
		PurchaserID:   purchaserID,
		Status:        status,
		DateCreated:   dateCreated,
	})
	require.NoError(t, err)
	return id
}
