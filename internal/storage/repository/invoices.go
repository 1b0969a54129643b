package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/invoicebox/invoicebox/internal/models"
)

// Enriched reads join the users table twice so every invoice carries the
// display names of both parties without duplicating usernames into the
// ledger.
const enrichedInvoiceColumns = `
	i.id, i.invoice_number, i.title, i.description, i.amount, i.currency,
	i.provider_id, i.purchaser_id, i.status, i.payment_reference,
	i.payment_date, i.date_created,
	p.username AS provider_name, b.username AS purchaser_name`

// CreateInvoice inserts a new ledger record and returns its id.
func (s *Storage) CreateInvoice(ctx context.Context, invoice models.Invoice) (int64, error) {
	const op = "storage.CreateInvoice"

	query := `INSERT INTO invoices (invoice_number, title, description, amount, currency,
			      provider_id, purchaser_id, status, date_created)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		invoice.InvoiceNumber, invoice.Title, invoice.Description, invoice.Amount,
		invoice.Currency, invoice.ProviderID, invoice.PurchaserID, invoice.Status,
		invoice.DateCreated).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetInvoiceByID returns one enriched invoice.
func (s *Storage) GetInvoiceByID(ctx context.Context, id int64) (*models.Invoice, error) {
	const op = "storage.GetInvoiceByID"

	query := `SELECT ` + enrichedInvoiceColumns + `
			  FROM invoices i
			  JOIN users p ON p.id = i.provider_id
			  JOIN users b ON b.id = i.purchaser_id
			  WHERE i.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvoiceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoice, nil
}

// ListInvoicesForUser returns the caller's visible invoice set, enriched:
// invoices they provide when role is provider, invoices they owe when
// role is purchaser. No pagination, the full set each call.
func (s *Storage) ListInvoicesForUser(ctx context.Context, userID int64, role string) ([]*models.Invoice, error) {
	const op = "storage.ListInvoicesForUser"

	ownerColumn := "i.purchaser_id"
	if role == models.RoleProvider {
		ownerColumn = "i.provider_id"
	}
	query := `SELECT ` + enrichedInvoiceColumns + `
			  FROM invoices i
			  JOIN users p ON p.id = i.provider_id
			  JOIN users b ON b.id = i.purchaser_id
			  WHERE ` + ownerColumn + ` = $1
			  ORDER BY i.id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, invoice)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateInvoiceStatus persists the outcome of a status transition as a
// single-row update (last write wins). Payment reference and date are
// written as given; the policy never passes nil for a submitted payment.
func (s *Storage) UpdateInvoiceStatus(ctx context.Context, id int64, status string,
	paymentReference *string, paymentDate *time.Time) error {
	const op = "storage.UpdateInvoiceStatus"

	query := `UPDATE invoices
			  SET status = $1,
			      payment_reference = COALESCE($2, payment_reference),
			      payment_date = COALESCE($3, payment_date)
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, status, paymentReference, paymentDate, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrInvoiceNotFound)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row scanner) (*models.Invoice, error) {
	var invoice models.Invoice
	var paymentReference sql.NullString
	var paymentDate sql.NullTime
	if err := row.Scan(&invoice.ID, &invoice.InvoiceNumber, &invoice.Title,
		&invoice.Description, &invoice.Amount, &invoice.Currency,
		&invoice.ProviderID, &invoice.PurchaserID, &invoice.Status,
		&paymentReference, &paymentDate, &invoice.DateCreated,
		&invoice.ProviderName, &invoice.PurchaserName); err != nil {
		return nil, err
	}
	if paymentReference.Valid {
		invoice.PaymentReference = &paymentReference.String
	}
	if paymentDate.Valid {
		invoice.PaymentDate = &paymentDate.Time
	}
	return &invoice, nil
}
