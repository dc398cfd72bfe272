package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpcoutinho/vitae/internal/content"
	"github.com/mpcoutinho/vitae/internal/prefs"
	"github.com/mpcoutinho/vitae/internal/storage"
)

const siteResumeEN = `# Maria Pereira Coutinho

**Title:** Principal Software Engineer
**Email:** maria@example.com

## Experience

### Principal Engineer — NordicPay
**Period:** 2021 - Present
**Industry:** Fintech
**Technologies:** Go, Kubernetes

- Led the payments platform rebuild
`

const siteResumePT = `---
language: pt
---
# Maria Pereira Coutinho

**Título:** Engenheira de Software Principal

## Experiência

### Engenheira Principal — NordicPay
**Período:** 2021 - Presente
**Setor:** Fintech
`

const siteProjectsEN = `# Projects

## E-commerce Platform Modernization

**Industry:** Retail
**Project Type:** Replatforming
**Technologies:** Go, Kubernetes

**Problem:** Legacy monolith limited release cadence.
**Action:** Decomposed checkout into services.
**Result:** Deploy frequency up 10x.

## AI-Powered Analytics Dashboard

**Industry:** Healthcare
**Project Type:** Greenfield
**Technologies:** Go, React

**Problem:** Clinicians lacked visibility into triage queues.
**Action:** Built a real-time analytics dashboard.
**Result:** Cut median triage time by 30%.
`

func writeSiteContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"resume.en.md":   siteResumeEN,
		"resume.pt.md":   siteResumePT,
		"projects.en.md": siteProjectsEN,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

func setupSiteHandler(t *testing.T) (http.Handler, *storage.Store, *content.Library) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	lib := content.NewLibrary(writeSiteContent(t), []string{"en", "pt"})
	if err := lib.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	mgr := prefs.NewManager(store, []string{"en", "pt"}, "en")
	h := NewSiteHandler(SiteDeps{Library: lib, Prefs: mgr, Views: store})
	return h, store, lib
}

func getJSON(t *testing.T, h http.Handler, req *http.Request, out any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code == http.StatusOK && out != nil {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding response: %v\nbody: %s", err, rr.Body.String())
		}
	}
	return rr
}

func TestHealth(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp map[string]string
	rr := getJSON(t, h, httptest.NewRequest(http.MethodGet, "/health", nil), &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %q, want ok", resp["status"])
	}
}

func TestLanguages(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp struct {
		Languages []string `json:"languages"`
		Default   string   `json:"default"`
	}
	rr := getJSON(t, h, httptest.NewRequest(http.MethodGet, "/api/languages", nil), &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(resp.Languages) != 2 || resp.Default != "en" {
		t.Errorf("got languages %v default %q", resp.Languages, resp.Default)
	}
}

func TestGetResume(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp struct {
		Personal struct {
			Name string `json:"name"`
		} `json:"personal"`
	}
	rr := getJSON(t, h, httptest.NewRequest(http.MethodGet, "/api/resume", nil), &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}
	if resp.Personal.Name != "Maria Pereira Coutinho" {
		t.Errorf("name = %q", resp.Personal.Name)
	}
	if c := rr.Result().Cookies(); len(c) == 0 || c[0].Name != "vitae_visitor" {
		t.Error("expected a visitor cookie on first request")
	}
}

func TestGetResume_ExplicitLang(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp struct {
		Meta struct {
			Language string `json:"language"`
		} `json:"meta"`
	}
	rr := getJSON(t, h, httptest.NewRequest(http.MethodGet, "/api/resume?lang=pt", nil), &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp.Meta.Language != "pt" {
		t.Errorf("meta.language = %q, want pt", resp.Meta.Language)
	}
}

func TestGetResume_UnknownLang(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/resume?lang=de", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestProjectSearch_FacetFilter(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp struct {
		Projects []struct {
			Title string `json:"title"`
		} `json:"projects"`
		Facets struct {
			Industries []string `json:"industries"`
		} `json:"facets"`
		Total int `json:"total"`
	}
	req := httptest.NewRequest(http.MethodGet, "/api/projects/search?industries=Healthcare", nil)
	rr := getJSON(t, h, req, &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp.Total != 1 || len(resp.Projects) != 1 {
		t.Fatalf("total = %d, projects = %d, want 1", resp.Total, len(resp.Projects))
	}
	if resp.Projects[0].Title != "AI-Powered Analytics Dashboard" {
		t.Errorf("title = %q", resp.Projects[0].Title)
	}
	// Facets come from the unfiltered list, so the deselected industry
	// stays visible.
	if len(resp.Facets.Industries) != 2 {
		t.Errorf("facet industries = %v, want both", resp.Facets.Industries)
	}
}

func TestProjectSearch_Query(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp struct {
		Total    int `json:"total"`
		Projects []struct {
			ID string `json:"id"`
		} `json:"projects"`
	}
	req := httptest.NewRequest(http.MethodGet, "/api/projects/search?q=triage", nil)
	rr := getJSON(t, h, req, &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp.Total != 1 || resp.Projects[0].ID != "ai-powered-analytics-dashboard" {
		t.Errorf("got %+v", resp)
	}
}

func TestLanguagePreferenceFlow(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	// First request assigns the cookie.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/preferences/language", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no visitor cookie assigned")
	}
	visitor := cookies[0]

	// Store a preference under that cookie.
	put := httptest.NewRequest(http.MethodPut, "/api/preferences/language", strings.NewReader(`{"language":"pt"}`))
	put.AddCookie(visitor)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, put)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}

	// The preference now drives content language.
	var resp struct {
		Meta struct {
			Language string `json:"language"`
		} `json:"meta"`
	}
	get := httptest.NewRequest(http.MethodGet, "/api/resume", nil)
	get.AddCookie(visitor)
	rr = getJSON(t, h, get, &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rr.Code)
	}
	if resp.Meta.Language != "pt" {
		t.Errorf("meta.language = %q, want pt after preference set", resp.Meta.Language)
	}

	var pref map[string]string
	get = httptest.NewRequest(http.MethodGet, "/api/preferences/language", nil)
	get.AddCookie(visitor)
	rr = getJSON(t, h, get, &pref)
	if pref["language"] != "pt" {
		t.Errorf("stored preference = %q, want pt", pref["language"])
	}
}

func TestPutLanguagePref_Unknown(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/preferences/language", strings.NewReader(`{"language":"de"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", rr.Code, rr.Body.String())
	}
}

func TestFacets(t *testing.T) {
	h, _, _ := setupSiteHandler(t)

	var resp struct {
		Projects struct {
			Industries   []string `json:"industries"`
			Technologies []string `json:"technologies"`
		} `json:"projects"`
		Experience struct {
			Industries []string `json:"industries"`
		} `json:"experience"`
	}
	rr := getJSON(t, h, httptest.NewRequest(http.MethodGet, "/api/facets", nil), &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	wantInd := []string{"Healthcare", "Retail"}
	if len(resp.Projects.Industries) != 2 || resp.Projects.Industries[0] != wantInd[0] || resp.Projects.Industries[1] != wantInd[1] {
		t.Errorf("project industries = %v, want %v", resp.Projects.Industries, wantInd)
	}
	if len(resp.Experience.Industries) != 1 || resp.Experience.Industries[0] != "Fintech" {
		t.Errorf("experience industries = %v", resp.Experience.Industries)
	}
}

func TestPageViewsRecorded(t *testing.T) {
	h, store, _ := setupSiteHandler(t)

	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/resume", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
	}

	stats, err := store.GetStats(5)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalViews != 3 {
		t.Errorf("total views = %d, want 3", stats.TotalViews)
	}
}
