package services

import (
	"errors"
	"time"

	"github.com/invoicebox/invoicebox/internal/models"
)

// Policy rejections. All of them answer 400 except ErrForbidden (403).
var (
	ErrForbidden                = errors.New("not authorized")
	ErrPaymentReferenceRequired = errors.New("payment reference required")
	ErrPaymentNotSubmitted      = errors.New("payment must be submitted first")
	ErrStatusNotAllowed         = errors.New("requested status not allowed for this role")
)

// transition is the outcome of a policy decision: the new status plus the
// payment fields to set alongside it (nil leaves them untouched).
type transition struct {
	status           string
	paymentReference *string
	paymentDate      *time.Time
}

// actor is a closed variant over the two sides of an invoice. Adding a
// third role means adding an implementation here, not falling through a
// role switch silently.
type actor interface {
	// apply decides the transition for the requested update, given the
	// invoice's current state.
	apply(invoice *models.Invoice, req models.DummyStatusUpdate, now time.Time) (transition, error)
}

// actorFor matches the caller against the invoice. Ownership is checked
// before any status rule: a user who is neither the invoice's provider
// nor its purchaser gets ErrForbidden regardless of the request.
func actorFor(user *models.User, invoice *models.Invoice) (actor, error) {
	switch user.Role {
	case models.RoleProvider:
		if invoice.ProviderID != user.ID {
			return nil, ErrForbidden
		}
		return providerActor{}, nil
	case models.RolePurchaser:
		if invoice.PurchaserID != user.ID {
			return nil, ErrForbidden
		}
		return purchaserActor{}, nil
	default:
		return nil, ErrForbidden
	}
}

// purchaserActor may submit payment proof or default the invoice.
// Self-targets (re-setting Pending, or marking Paid past the provider's
// confirmation) are rejected.
type purchaserActor struct{}

func (purchaserActor) apply(_ *models.Invoice, req models.DummyStatusUpdate, now time.Time) (transition, error) {
	switch req.Status {
	case models.StatusPaymentSubmitted:
		if req.PaymentReference == "" {
			return transition{}, ErrPaymentReferenceRequired
		}
		reference := req.PaymentReference
		date := now
		return transition{
			status:           models.StatusPaymentSubmitted,
			paymentReference: &reference,
			paymentDate:      &date,
		}, nil
	case models.StatusDefaulted:
		return transition{status: models.StatusDefaulted}, nil
	default:
		return transition{}, ErrStatusNotAllowed
	}
}

// providerActor may confirm a submitted payment or default the invoice.
type providerActor struct{}

func (providerActor) apply(invoice *models.Invoice, req models.DummyStatusUpdate, _ time.Time) (transition, error) {
	switch req.Status {
	case models.StatusPaid:
		if invoice.Status != models.StatusPaymentSubmitted {
			return transition{}, ErrPaymentNotSubmitted
		}
		return transition{status: models.StatusPaid}, nil
	case models.StatusDefaulted:
		return transition{status: models.StatusDefaulted}, nil
	default:
		return transition{}, ErrStatusNotAllowed
	}
}
