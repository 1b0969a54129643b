// Package services derives the dashboard and analytics aggregates from a
// user's visible invoice set, with a short-lived Redis cache in front.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/invoicebox/invoicebox/internal/lib/sl"
	"github.com/invoicebox/invoicebox/internal/models"
)

// Aggregates are cheap to recompute; the cache only smooths repeated
// dashboard polling, and every invoice mutation invalidates it.
const cacheTTL = time.Minute

// trendMonths is the length of the monthly analytics series.
const trendMonths = 6

// InvoiceRepository is the ledger contract the service needs.
type InvoiceRepository interface {
	ListInvoicesForUser(ctx context.Context, userID int64, role string) ([]*models.Invoice, error)
}

// Cache is the aggregate cache contract.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ReportingService computes dashboard and analytics summaries.
type ReportingService struct {
	repo  InvoiceRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewReportingService builds a ReportingService.
func NewReportingService(repo InvoiceRepository, cache Cache, log *slog.Logger) *ReportingService {
	return &ReportingService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Dashboard returns the headline aggregates for the user's visible
// invoices.
func (s *ReportingService) Dashboard(ctx context.Context, user *models.User) (*models.Dashboard, error) {
	const op = "reporting.Dashboard"

	cacheKey := dashboardKey(user.ID)
	var cached models.Dashboard
	if found, err := s.cache.Get(cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	invoices, err := s.repo.ListInvoicesForUser(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dashboard := &models.Dashboard{TotalInvoices: len(invoices)}
	for _, invoice := range invoices {
		dashboard.TotalAmount += invoice.Amount
		switch invoice.Status {
		case models.StatusPaid:
			dashboard.PaidAmount += invoice.Amount
		case models.StatusPending:
			dashboard.PendingCount++
		case models.StatusPaymentSubmitted:
			dashboard.PaymentSubmittedCount++
		}
	}

	if err := s.cache.Set(cacheKey, dashboard, cacheTTL); err != nil {
		s.log.Warn("failed to cache dashboard", slog.String("key", cacheKey), sl.Err(err))
	}
	return dashboard, nil
}

// Analytics returns the status, currency and monthly breakdowns for the
// user's visible invoices. Breakdown maps are zero-filled so every known
// status and currency key is always present.
func (s *ReportingService) Analytics(ctx context.Context, user *models.User) (*models.Analytics, error) {
	const op = "reporting.Analytics"

	cacheKey := analyticsKey(user.ID)
	var cached models.Analytics
	if found, err := s.cache.Get(cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	invoices, err := s.repo.ListInvoicesForUser(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	analytics := &models.Analytics{
		StatusBreakdown:   make(map[string]int, len(models.Statuses)),
		CurrencyBreakdown: make(map[string]float64, len(models.Currencies)),
	}
	for _, status := range models.Statuses {
		analytics.StatusBreakdown[status] = 0
	}
	for _, currency := range models.Currencies {
		analytics.CurrencyBreakdown[currency] = 0
	}
	for _, invoice := range invoices {
		analytics.StatusBreakdown[invoice.Status]++
		analytics.CurrencyBreakdown[invoice.Currency] += invoice.Amount
	}
	analytics.MonthlyTrends = monthlyTrends(invoices, s.now())

	if err := s.cache.Set(cacheKey, analytics, cacheTTL); err != nil {
		s.log.Warn("failed to cache analytics", slog.String("key", cacheKey), sl.Err(err))
	}
	return analytics, nil
}

// InvalidateFor drops the cached aggregates of one user. Called by the
// invoice service after every mutation touching that user's set.
func (s *ReportingService) InvalidateFor(userID int64) {
	for _, key := range []string{dashboardKey(userID), analyticsKey(userID)} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate report cache", slog.String("key", key), sl.Err(err))
		}
	}
}

// monthlyTrends buckets invoices into the six calendar months ending at
// now's month, oldest first. An invoice lands in a bucket when its
// creation month number matches the bucket month; the year is ignored, so
// the same calendar month of different years merges into one bucket.
func monthlyTrends(invoices []*models.Invoice, now time.Time) []models.MonthlyTrend {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	trends := make([]models.MonthlyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		ref := firstOfMonth.AddDate(0, -i, 0)
		trend := models.MonthlyTrend{Month: ref.Format("Jan 2006")}
		for _, invoice := range invoices {
			if invoice.DateCreated.Month() == ref.Month() {
				trend.Count++
				trend.Amount += invoice.Amount
			}
		}
		trends = append(trends, trend)
	}
	return trends
}

func dashboardKey(userID int64) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

func analyticsKey(userID int64) string {
	return fmt.Sprintf("analytics:%d", userID)
}

// WithClock overrides the service clock. Test hook.
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}
