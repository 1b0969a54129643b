// Package create handles invoice creation by providers.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/invoicebox/invoicebox/internal/http/middlewarectx"
	"github.com/invoicebox/invoicebox/internal/http/response"
	"github.com/invoicebox/invoicebox/internal/lib/sl"
	"github.com/invoicebox/invoicebox/internal/models"
	invoiceservice "github.com/invoicebox/invoicebox/internal/services/invoice"
)

// Service is the part of the invoice service this handler uses.
type Service interface {
	Create(ctx context.Context, user *models.User, req models.DummyInvoice) (*models.InvoiceView, error)
}

// Handler handles POST /invoices.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New builds the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.create"

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

	var req models.DummyInvoice
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	view, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, invoiceservice.ErrProviderRoleRequired):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only providers can create invoices"))
		case errors.Is(err, invoiceservice.ErrInvalidPurchaser):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("purchaser not found or not a purchaser"))
		default:
			log.Error("failed to create invoice", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create invoice"))
		}
		return
	}

	log.Info("invoice created", slog.String("invoice_number", view.InvoiceNumber))
	render.JSON(w, r, view)
}
