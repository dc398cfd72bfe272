package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpcoutinho/vitae/internal/content"
	"github.com/mpcoutinho/vitae/internal/storage"
)

// StatsSource abstracts visit statistics for the admin handler.
// Implemented by storage.Store.
type StatsSource interface {
	GetStats(topN int) (storage.Stats, error)
}

type AdminDeps struct {
	Library *content.Library
	Stats   StatsSource
	Token   string
	Logger  *slog.Logger
}

const statsTopPaths = 10

// NewAdminHandler returns the bearer-protected admin router.
func NewAdminHandler(deps AdminDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(BearerAuth(deps.Token))

	r.Post("/reload", handleReload(deps))
	r.Get("/stats", handleStats(deps))

	return r
}

func handleReload(deps AdminDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Library.Load(r.Context()); err != nil {
			deps.Logger.Error("content reload failed", "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "reload failed: %v", err)
			return
		}
		notes := deps.Library.Notes()
		deps.Logger.Info("content reloaded", "languages", len(deps.Library.Languages()))
		writeJSON(w, map[string]any{
			"status": "reloaded",
			"notes":  notes,
		})
	}
}

func handleStats(deps AdminDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Stats.GetStats(statsTopPaths)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load stats: %v", err)
			return
		}
		writeJSON(w, stats)
	}
}
