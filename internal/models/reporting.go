package models

// Dashboard holds the headline aggregates over a user's visible invoices.
type Dashboard struct {
	TotalInvoices         int     `json:"total_invoices"`
	TotalAmount           float64 `json:"total_amount"`
	PaidAmount            float64 `json:"paid_amount"`
	PendingCount          int     `json:"pending_count"`
	PaymentSubmittedCount int     `json:"payment_submitted_count"`
}

// MonthlyTrend is one bucket of the six-month analytics series.
type MonthlyTrend struct {
	Month  string  `json:"month"` // abbreviated month name + year, e.g. "Jan 2026"
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Analytics holds the breakdown aggregates over a user's visible invoices.
// Breakdown maps are zero-filled: every status and currency key is always
// present.
type Analytics struct {
	StatusBreakdown   map[string]int     `json:"status_breakdown"`
	CurrencyBreakdown map[string]float64 `json:"currency_breakdown"`
	MonthlyTrends     []MonthlyTrend     `json:"monthly_trends"`
}
