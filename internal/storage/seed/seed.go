// Package seed fills an empty database with a demo provider, a demo
// purchaser and a handful of invoices, so a fresh local install has
// something to show.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/invoicebox/invoicebox/internal/lib/invoicenumber"
	"github.com/invoicebox/invoicebox/internal/lib/password"
	"github.com/invoicebox/invoicebox/internal/models"
)

// Repository is the storage contract the seeder needs.
type Repository interface {
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, user models.User) (int64, error)
	CreateInvoice(ctx context.Context, invoice models.Invoice) (int64, error)
	UpdateInvoiceStatus(ctx context.Context, id int64, status string,
		paymentReference *string, paymentDate *time.Time) error
}

type demoInvoice struct {
	title    string
	amount   float64
	currency string
	status   string
	age      time.Duration // how far in the past date_created lies
}

var demoInvoices = []demoInvoice{
	{"Office fit-out, phase 1", 4200, models.CurrencyUSD, models.StatusPending, 0},
	{"Quarterly consulting retainer", 1850000, models.CurrencyUGX, models.StatusPending, 20 * 24 * time.Hour},
	{"Network cabling", 760, models.CurrencyUSD, models.StatusPaymentSubmitted, 45 * 24 * time.Hour},
	{"Generator maintenance", 1300, models.CurrencyLYD, models.StatusPaid, 70 * 24 * time.Hour},
	{"Signage printing", 95000, models.CurrencyUGX, models.StatusDefaulted, 100 * 24 * time.Hour},
}

// Run seeds demo data when the users table is empty; otherwise it does
// nothing. Invoices past Pending are driven there through status updates
// so payment fields stay consistent with their status.
func Run(ctx context.Context, log *slog.Logger, repo Repository) error {
	const op = "seed.Run"

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return nil
	}

	hash, err := password.GetHash("password")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	providerID, err := repo.CreateUser(ctx, models.User{
		Username: "provider1", Email: "provider@test.com", PasswordHash: hash, Role: models.RoleProvider,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	purchaserID, err := repo.CreateUser(ctx, models.User{
		Username: "purchaser1", Email: "purchaser@test.com", PasswordHash: hash, Role: models.RolePurchaser,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	for i, demo := range demoInvoices {
		id, err := repo.CreateInvoice(ctx, models.Invoice{
			InvoiceNumber: invoicenumber.New(),
			Title:         demo.title,
			Description:   fmt.Sprintf("Demo invoice %d", i+1),
			Amount:        demo.amount,
			Currency:      demo.currency,
			ProviderID:    providerID,
			PurchaserID:   purchaserID,
			Status:        models.StatusPending,
			DateCreated:   now.Add(-demo.age),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := advanceTo(ctx, repo, id, demo.status, now); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("seeded demo data",
		slog.Int64("provider_id", providerID),
		slog.Int64("purchaser_id", purchaserID),
		slog.Int("invoices", len(demoInvoices)))
	return nil
}

func advanceTo(ctx context.Context, repo Repository, id int64, status string, now time.Time) error {
	switch status {
	case models.StatusPending:
		return nil
	case models.StatusDefaulted:
		return repo.UpdateInvoiceStatus(ctx, id, models.StatusDefaulted, nil, nil)
	case models.StatusPaymentSubmitted, models.StatusPaid:
		reference := fmt.Sprintf("DEMO-%d", id)
		if err := repo.UpdateInvoiceStatus(ctx, id, models.StatusPaymentSubmitted, &reference, &now); err != nil {
			return err
		}
		if status == models.StatusPaid {
			return repo.UpdateInvoiceStatus(ctx, id, models.StatusPaid, nil, nil)
		}
		return nil
	default:
		return fmt.Errorf("unknown demo status %q", status)
	}
}
