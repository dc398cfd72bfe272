// Package api exposes the résumé content over a JSON HTTP API: public
// read endpoints for résumé, projects, faceted search and language
// preferences, plus bearer-protected admin endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpcoutinho/vitae/internal/content"
	"github.com/mpcoutinho/vitae/internal/prefs"
	"github.com/mpcoutinho/vitae/internal/search"
	"github.com/mpcoutinho/vitae/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// ViewRecorder abstracts page-view persistence for the site handler.
// Implemented by storage.Store; nil disables recording.
type ViewRecorder interface {
	RecordPageView(v storage.PageView) error
}

type SiteDeps struct {
	Library *content.Library
	Prefs   *prefs.Manager
	Views   ViewRecorder
	Logger  *slog.Logger
}

// NewSiteHandler returns the public API router.
func NewSiteHandler(deps SiteDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestLogger(deps.Logger))
	r.Use(VisitorCookie)

	r.Get("/health", handleHealth)
	r.Get("/api/languages", handleLanguages(deps))
	r.Get("/api/resume", handleResume(deps))
	r.Get("/api/resume/experience", handleExperienceSearch(deps))
	r.Get("/api/projects", handleProjects(deps))
	r.Get("/api/projects/search", handleProjectSearch(deps))
	r.Get("/api/facets", handleFacets(deps))
	r.Get("/api/preferences/language", handleGetLanguagePref(deps))
	r.Put("/api/preferences/language", handlePutLanguagePref(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func handleLanguages(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, err := deps.Prefs.DefaultLang()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load default language: %v", err)
			return
		}
		writeJSON(w, map[string]any{
			"languages": deps.Prefs.Languages(),
			"default":   def,
		})
	}
}

// resolveLang picks the language for a content request: an explicit
// valid ?lang= wins, then the visitor's stored preference, then the
// site default.
func resolveLang(deps SiteDeps, r *http.Request) (string, error) {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if !deps.Prefs.Valid(lang) {
			return "", prefs.ErrUnknownLanguage
		}
		return lang, nil
	}
	if id := VisitorID(r); id != "" {
		return deps.Prefs.VisitorLang(id)
	}
	return deps.Prefs.DefaultLang()
}

func langBundle(deps SiteDeps, w http.ResponseWriter, r *http.Request) (content.Bundle, bool) {
	lang, err := resolveLang(deps, r)
	if errors.Is(err, prefs.ErrUnknownLanguage) {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown language %q", r.URL.Query().Get("lang"))
		return content.Bundle{}, false
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "failed to resolve language: %v", err)
		return content.Bundle{}, false
	}
	b, err := deps.Library.Bundle(lang)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "no content loaded for %q", lang)
		return content.Bundle{}, false
	}
	return b, true
}

// recordView persists a page view keyed by the hashed visitor cookie.
// Failures are logged and never surfaced to the client.
func recordView(deps SiteDeps, r *http.Request, lang string) {
	if deps.Views == nil {
		return
	}
	v := storage.PageView{
		ID:          uuid.New().String(),
		VisitorHash: HashVisitor(VisitorID(r)),
		Path:        r.URL.Path,
		Lang:        lang,
		CreatedAt:   time.Now().UTC(),
	}
	if err := deps.Views.RecordPageView(v); err != nil {
		deps.Logger.Debug("recording page view failed", "error", err)
	}
}

func handleResume(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := langBundle(deps, w, r)
		if !ok {
			return
		}
		recordView(deps, r, b.Lang)
		writeJSON(w, b.Resume)
	}
}

func handleExperienceSearch(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := langBundle(deps, w, r)
		if !ok {
			return
		}
		f := search.ExperienceFilter{
			Query:        r.URL.Query().Get("q"),
			Industries:   multiParam(r, "industries"),
			Technologies: multiParam(r, "technologies"),
			RoleTypes:    multiParam(r, "role_types"),
			CompanySizes: multiParam(r, "company_sizes"),
		}
		matched := search.FilterExperience(b.Resume.Experience, f)
		writeJSON(w, map[string]any{
			"experience": matched,
			"facets":     search.CollectExperienceFacets(b.Resume.Experience),
			"total":      len(matched),
		})
	}
}

func handleProjects(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := langBundle(deps, w, r)
		if !ok {
			return
		}
		recordView(deps, r, b.Lang)
		writeJSON(w, map[string]any{
			"projects": b.Projects,
			"total":    len(b.Projects),
		})
	}
}

func handleProjectSearch(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := langBundle(deps, w, r)
		if !ok {
			return
		}
		f := search.ProjectFilter{
			Query:         r.URL.Query().Get("q"),
			Industries:    multiParam(r, "industries"),
			Technologies:  multiParam(r, "technologies"),
			ProjectTypes:  multiParam(r, "project_types"),
			ClientTypes:   multiParam(r, "client_types"),
			BusinessUnits: multiParam(r, "business_units"),
		}
		matched := search.FilterProjects(b.Projects, f)
		writeJSON(w, map[string]any{
			"projects": matched,
			"facets":   search.CollectProjectFacets(b.Projects),
			"total":    len(matched),
		})
	}
}

func handleFacets(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := langBundle(deps, w, r)
		if !ok {
			return
		}
		writeJSON(w, map[string]any{
			"projects":   search.CollectProjectFacets(b.Projects),
			"experience": search.CollectExperienceFacets(b.Resume.Experience),
		})
	}
}

func handleGetLanguagePref(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang, err := deps.Prefs.VisitorLang(VisitorID(r))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load language preference: %v", err)
			return
		}
		writeJSON(w, map[string]string{"language": lang})
	}
}

func handlePutLanguagePref(deps SiteDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var req struct {
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		err := deps.Prefs.SetVisitorLang(VisitorID(r), req.Language)
		if errors.Is(err, prefs.ErrUnknownLanguage) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown language %q", req.Language)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save language preference: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "updated", "language": req.Language})
	}
}

// multiParam collects a repeatable query parameter, also splitting
// comma-separated values inside a single occurrence.
func multiParam(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
