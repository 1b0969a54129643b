// Package spa serves the prebuilt front-end bundle. Unknown paths fall
// back to index.html so client-side routing works after a page reload.
package spa

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"

	"github.com/invoicebox/invoicebox/internal/http/response"
)

// Handler is the catch-all for requests no API route matched.
type Handler struct {
	staticDir string
}

// New builds the handler. staticDir may be empty when no bundle is
// deployed; every request then answers 404.
func New(staticDir string) *Handler {
	return &Handler{staticDir: staticDir}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Anything under /api/ that reached the catch-all is an unknown
	// endpoint, never a client route.
	if strings.HasPrefix(r.URL.Path, "/api/") {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("endpoint not found"))
		return
	}

	if h.staticDir == "" {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("static files not found"))
		return
	}
	if info, err := os.Stat(h.staticDir); err != nil || !info.IsDir() {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("static files not found"))
		return
	}

	// Clean the path relative to the bundle root so ".." cannot escape
	// the static directory.
	relative := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	filePath := filepath.Join(h.staticDir, relative)

	if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, filePath)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}
