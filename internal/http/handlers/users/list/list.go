// Package list handles the purchaser directory used by providers when
// issuing an invoice. Non-providers get an empty list, not an error.
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

// Service is the credential store contract this handler uses.
type Service interface {
	ListPurchasers(ctx context.Context) ([]*models.User, error)
}

// Handler handles GET /users.
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
	const op = "handlers.users.list"

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

	views := []models.UserView{}
	if user.Role == models.RoleProvider {
		purchasers, err := h.service.ListPurchasers(r.Context())
		if err != nil {
			log.Error("failed to list purchasers", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list users"))
			return
		}
		for _, purchaser := range purchasers {
			views = append(views, purchaser.View())
		}
	}

	render.JSON(w, r, views)
}
