// Package list handles the role-scoped invoice listing.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/invoicebox/invoicebox/internal/http/middlewarectx"
	"github.com/invoicebox/invoicebox/internal/http/response"
	"github.com/invoicebox/invoicebox/internal/lib/sl"
	"github.com/invoicebox/invoicebox/internal/models"
)

// Service is the part of the invoice service this handler uses.
type Service interface {
	List(ctx context.Context, user *models.User) ([]*models.InvoiceView, error)
}

// Handler handles GET /invoices.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New builds the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user := middlewarectx.UserFromContext(r.Context())
	if user == nil {
		log.Error("user not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	views, err := h.service.List(r.Context(), user)
	if err != nil {
		log.Error("failed to list invoices", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list invoices"))
		return
	}
	if views == nil {
		views = []*models.InvoiceView{}
	}

	log.Info("listed invoices", slog.Int("count", len(views)))
	render.JSON(w, r, views)
}
