// Package site serves the embedded player dashboard: a single page that
// reads the API and listens to /ws for live events.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts the dashboard at / and /dashboard.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	files := http.FileServer(FS())
	r.Get("/", files.ServeHTTP)
	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/", http.StatusMovedPermanently)
	})
	r.Get("/static/*", http.StripPrefix("/static", files).ServeHTTP)
}
