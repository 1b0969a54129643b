// Package health serves the liveness probe.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Handler handles GET /health.
type Handler struct {
	log *slog.Logger
}

// New builds the handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status": "ok",
	})
}
