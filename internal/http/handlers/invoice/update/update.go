// Package update handles invoice status transitions: purchasers submit
// payment proof or default, providers confirm submitted payments or
// default.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/invoicebox/invoicebox/internal/http/middlewarectx"
	"github.com/invoicebox/invoicebox/internal/http/response"
	"github.com/invoicebox/invoicebox/internal/lib/sl"
	"github.com/invoicebox/invoicebox/internal/models"
	invoiceservice "github.com/invoicebox/invoicebox/internal/services/invoice"
	"github.com/invoicebox/invoicebox/internal/storage/repository"
)

// Service is the part of the invoice service this handler uses.
type Service interface {
	UpdateStatus(ctx context.Context, user *models.User, invoiceID int64,
		req models.DummyStatusUpdate) (*models.InvoiceView, error)
}

// Handler handles PUT /invoices/{id}.
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
	const op = "handlers.invoice.update"

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

	invoiceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.DummyStatusUpdate
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

	view, err := h.service.UpdateStatus(r.Context(), user, invoiceID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvoiceNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("invoice not found"))
		case errors.Is(err, invoiceservice.ErrForbidden):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("not authorized"))
		case errors.Is(err, invoiceservice.ErrPaymentReferenceRequired):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment reference required"))
		case errors.Is(err, invoiceservice.ErrPaymentNotSubmitted):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment must be submitted first"))
		case errors.Is(err, invoiceservice.ErrStatusNotAllowed):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("requested status not allowed"))
		default:
			log.Error("failed to update invoice", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update invoice"))
		}
		return
	}

	log.Info("invoice updated",
		slog.Int64("id", invoiceID), slog.String("status", view.Status))
	render.JSON(w, r, view)
}
