// Package services implements the invoice workflow: creation by
// providers, role-scoped listing, and status transitions guarded by the
// ownership policy.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invoicebox/invoicebox/internal/lib/invoicenumber"
	"github.com/invoicebox/invoicebox/internal/models"
	"github.com/invoicebox/invoicebox/internal/storage/repository"
)

// Errors surfaced to the handlers in addition to the policy errors.
var (
	ErrProviderRoleRequired = errors.New("only providers can create invoices")
	ErrInvalidPurchaser     = errors.New("purchaser not found or not a purchaser")
)

// InvoiceRepository is the ledger contract the service needs.
type InvoiceRepository interface {
	// CreateInvoice inserts a new ledger record and returns its id.
	CreateInvoice(ctx context.Context, invoice models.Invoice) (int64, error)
	// GetInvoiceByID returns one enriched invoice.
	GetInvoiceByID(ctx context.Context, id int64) (*models.Invoice, error)
	// ListInvoicesForUser returns the user's visible enriched invoices.
	ListInvoicesForUser(ctx context.Context, userID int64, role string) ([]*models.Invoice, error)
	// UpdateInvoiceStatus persists a transition as a single-row update.
	UpdateInvoiceStatus(ctx context.Context, id int64, status string,
		paymentReference *string, paymentDate *time.Time) error
}

// UserRepository resolves the purchaser named in a creation request.
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// ReportInvalidator drops cached aggregates for a user after a mutation,
// so dashboards never trail the invoice list.
type ReportInvalidator interface {
	InvalidateFor(userID int64)
}

// InvoiceService implements the invoice operations.
type InvoiceService struct {
	repo    InvoiceRepository
	users   UserRepository
	reports ReportInvalidator
	log     *slog.Logger
	now     func() time.Time
}

// NewInvoiceService builds an InvoiceService.
func NewInvoiceService(repo InvoiceRepository, users UserRepository,
	reports ReportInvalidator, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:    repo,
		users:   users,
		reports: reports,
		log:     log,
		now:     time.Now,
	}
}

// Create issues a new invoice from the acting provider against the
// requested purchaser. The caller must hold the provider role and the
// purchaser must exist with the purchaser role.
func (s *InvoiceService) Create(ctx context.Context, user *models.User, req models.DummyInvoice) (*models.InvoiceView, error) {
	const op = "invoice.Create"

	if user.Role != models.RoleProvider {
		return nil, fmt.Errorf("%s: %w", op, ErrProviderRoleRequired)
	}
	purchaser, err := s.users.GetUserByID(ctx, req.PurchaserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidPurchaser)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if purchaser.Role != models.RolePurchaser {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPurchaser)
	}

	invoice := models.Invoice{
		InvoiceNumber: invoicenumber.New(),
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      req.Currency,
		ProviderID:    user.ID,
		PurchaserID:   purchaser.ID,
		Status:        models.StatusPending,
		DateCreated:   s.now().UTC(),
	}
	id, err := s.repo.CreateInvoice(ctx, invoice)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created invoice",
		slog.Int64("id", id), slog.String("invoice_number", invoice.InvoiceNumber))

	s.invalidateReports(invoice.ProviderID, invoice.PurchaserID)

	created, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created.View(), nil
}

// List returns the caller's visible invoices, enriched.
func (s *InvoiceService) List(ctx context.Context, user *models.User) ([]*models.InvoiceView, error) {
	const op = "invoice.List"

	invoices, err := s.repo.ListInvoicesForUser(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views := make([]*models.InvoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, invoice.View())
	}
	return views, nil
}

// UpdateStatus runs a requested transition through the policy, persists
// it, and returns the enriched invoice. Policy errors pass through for
// the handler to map; an unknown invoice id yields the repository's
// not-found error.
func (s *InvoiceService) UpdateStatus(ctx context.Context, user *models.User,
	invoiceID int64, req models.DummyStatusUpdate) (*models.InvoiceView, error) {
	const op = "invoice.UpdateStatus"

	invoice, err := s.repo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	side, err := actorFor(user, invoice)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := side.apply(invoice, req, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateInvoiceStatus(ctx, invoiceID, result.status,
		result.paymentReference, result.paymentDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("invoice status updated",
		slog.Int64("id", invoiceID),
		slog.String("from", invoice.Status),
		slog.String("to", result.status))

	s.invalidateReports(invoice.ProviderID, invoice.PurchaserID)

	updated, err := s.repo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated.View(), nil
}

func (s *InvoiceService) invalidateReports(userIDs ...int64) {
	for _, id := range userIDs {
		s.reports.InvalidateFor(id)
	}
}

// WithClock overrides the service clock. Test hook.
func (s *InvoiceService) WithClock(now func() time.Time) *InvoiceService {
	s.now = now
	return s
}
