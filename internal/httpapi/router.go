package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"bptracker/internal/store"
)

type Router struct {
	store           *store.Store
	logger          zerolog.Logger
	maxRequestBytes int64
}

func NewRouter(st *store.Store, logger zerolog.Logger, maxRequestBytes int64) http.Handler {
	r := &Router{store: st, logger: logger, maxRequestBytes: maxRequestBytes}
	mux := chi.NewRouter()

	mux.Get("/health", r.handleHealth)

	mux.Route("/api/v1/recordings", func(pr chi.Router) {
		pr.Get("/", r.handleList)
		pr.Post("/", r.handleCreate)
		pr.Get("/export", r.handleExport)
		pr.Post("/import", r.handleImport)
		pr.Put("/{id}", r.handleUpdate)
		pr.Delete("/{id}", r.handleDelete)
	})

	return mux
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
