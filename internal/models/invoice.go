package models

import "time"

// Invoice statuses. An invoice starts Pending and only moves forward
// (Pending -> Payment Submitted -> Paid), except Defaulted which is
// reachable from any state.
const (
	StatusPending          = "Pending"
	StatusPaymentSubmitted = "Payment Submitted"
	StatusPaid             = "Paid"
	StatusDefaulted        = "Defaulted"
)

// Supported invoice currencies.
const (
	CurrencyUGX = "UGX"
	CurrencyUSD = "USD"
	CurrencyLYD = "LYD"
)

// Statuses lists every invoice status, in workflow order.
var Statuses = []string{StatusPending, StatusPaymentSubmitted, StatusPaid, StatusDefaulted}

// Currencies lists every supported currency.
var Currencies = []string{CurrencyUGX, CurrencyUSD, CurrencyLYD}

// Invoice is the ledger record. ProviderName and PurchaserName are not
// stored columns: enriched reads fill them by joining on users, keeping
// usernames single-sourced.
type Invoice struct {
	ID               int64
	InvoiceNumber    string // INV-XXXXXXXX, assigned once at creation
	Title            string
	Description      string
	Amount           float64
	Currency         string
	ProviderID       int64
	PurchaserID      int64
	Status           string
	PaymentReference *string    // set with PaymentDate, never cleared
	PaymentDate      *time.Time // set when payment is submitted
	DateCreated      time.Time

	ProviderName  string
	PurchaserName string
}

// DummyInvoice carries the JSON body of an invoice creation request
// before it is turned into a ledger record.
type DummyInvoice struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"required,oneof=UGX USD LYD"`
	PurchaserID int64   `json:"purchaser_id" validate:"required"`
}

// DummyStatusUpdate carries the JSON body of a status transition request.
// The target status is checked by the transition policy, not by tag
// validation, so that rejections carry precise messages.
type DummyStatusUpdate struct {
	Status           string `json:"status" validate:"required"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// InvoiceView is the enriched read-side projection returned by every
// invoice endpoint: counterparty usernames plus ISO-8601 timestamps.
type InvoiceView struct {
	ID               int64   `json:"id"`
	InvoiceNumber    string  `json:"invoice_number"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	PaymentReference *string `json:"payment_reference"`
	PaymentDate      *string `json:"payment_date"`
	DateCreated      string  `json:"date_created"`
	ProviderName     string  `json:"provider_name"`
	PurchaserName    string  `json:"purchaser_name"`
}

// View returns the serializable projection of the invoice.
func (i *Invoice) View() *InvoiceView {
	view := &InvoiceView{
		ID:               i.ID,
		InvoiceNumber:    i.InvoiceNumber,
		Title:            i.Title,
		Description:      i.Description,
		Amount:           i.Amount,
		Currency:         i.Currency,
		Status:           i.Status,
		PaymentReference: i.PaymentReference,
		DateCreated:      i.DateCreated.Format(time.RFC3339),
		ProviderName:     i.ProviderName,
		PurchaserName:    i.PurchaserName,
	}
	if i.PaymentDate != nil {
		formatted := i.PaymentDate.Format(time.RFC3339)
		view.PaymentDate = &formatted
	}
	return view
}
