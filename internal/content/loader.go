// Package content loads the markdown content directory into an
// in-memory library, one bundle per configured language, and keeps it
// fresh via a polling watcher.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpcoutinho/vitae/internal/resume"
)

// ErrUnknownLanguage is returned when a bundle is requested for a
// language the library was not configured with.
var ErrUnknownLanguage = errors.New("unknown language")

const loadConcurrency = 4

// Bundle is the parsed content for one language. Bundles are
// read-only after load; callers must not mutate the slices.
type Bundle struct {
	Lang     string
	Resume   resume.ResumeData
	Projects []resume.Project
	Meta     resume.Meta
	Notes    []string // advisory parse notes, surfaced on admin reload
	LoadedAt time.Time
}

// Library holds the current content snapshot for all languages.
// Load replaces the whole snapshot atomically; readers always see a
// consistent set of bundles.
type Library struct {
	dir       string
	languages []string
	logger    *slog.Logger

	mu      sync.RWMutex
	bundles map[string]Bundle
	mtimes  map[string]time.Time
}

// NewLibrary creates a Library over dir for the given language codes.
func NewLibrary(dir string, languages []string) *Library {
	return &Library{
		dir:       dir,
		languages: languages,
		logger:    slog.Default(),
		bundles:   make(map[string]Bundle),
		mtimes:    make(map[string]time.Time),
	}
}

func resumePath(dir, lang string) string {
	return filepath.Join(dir, fmt.Sprintf("resume.%s.md", lang))
}

func projectsPath(dir, lang string) string {
	return filepath.Join(dir, fmt.Sprintf("projects.%s.md", lang))
}

// Load parses all configured languages concurrently and swaps the
// snapshot in one step. On error the previous snapshot is kept.
func (l *Library) Load(ctx context.Context) error {
	bundles := make([]Bundle, len(l.languages))
	mtimes := make(map[string]time.Time)
	var mtimesMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, lang := range l.languages {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			b, seen, err := loadLanguage(l.dir, lang)
			if err != nil {
				return fmt.Errorf("loading %s content: %w", lang, err)
			}
			bundles[i] = b
			mtimesMu.Lock()
			for p, t := range seen {
				mtimes[p] = t
			}
			mtimesMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byLang := make(map[string]Bundle, len(bundles))
	for _, b := range bundles {
		if len(b.Notes) > 0 {
			l.logger.Warn("content parsed with advisory notes", "lang", b.Lang, "notes", len(b.Notes))
		}
		byLang[b.Lang] = b
	}

	l.mu.Lock()
	l.bundles = byLang
	l.mtimes = mtimes
	l.mu.Unlock()
	return nil
}

// loadLanguage parses the résumé and projects documents for one
// language. The résumé document is required; a missing projects
// document just yields an empty project list with an advisory note.
func loadLanguage(dir, lang string) (Bundle, map[string]time.Time, error) {
	seen := make(map[string]time.Time)
	b := Bundle{Lang: lang, LoadedAt: time.Now().UTC()}

	rp := resumePath(dir, lang)
	data, err := os.ReadFile(rp)
	if err != nil {
		return Bundle{}, nil, fmt.Errorf("reading %s: %w", rp, err)
	}
	if info, err := os.Stat(rp); err == nil {
		seen[rp] = info.ModTime()
	}
	parsed := resume.ParseResume(string(data))
	b.Resume = parsed.Data
	b.Meta = parsed.Data.Meta
	for _, e := range parsed.Errors {
		b.Notes = append(b.Notes, fmt.Sprintf("%s: %s", filepath.Base(rp), e))
	}

	pp := projectsPath(dir, lang)
	pdata, err := os.ReadFile(pp)
	switch {
	case errors.Is(err, os.ErrNotExist):
		b.Notes = append(b.Notes, fmt.Sprintf("%s: not found, no projects for %s", filepath.Base(pp), lang))
	case err != nil:
		return Bundle{}, nil, fmt.Errorf("reading %s: %w", pp, err)
	default:
		if info, err := os.Stat(pp); err == nil {
			seen[pp] = info.ModTime()
		}
		pres := resume.ParseProjects(string(pdata))
		b.Projects = pres.Projects
		for _, e := range pres.Errors {
			b.Notes = append(b.Notes, fmt.Sprintf("%s: %s", filepath.Base(pp), e))
		}
	}

	return b, seen, nil
}

// Bundle returns the current snapshot for lang.
func (l *Library) Bundle(lang string) (Bundle, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.bundles[lang]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return b, nil
}

// Languages returns the configured language codes.
func (l *Library) Languages() []string {
	out := make([]string, len(l.languages))
	copy(out, l.languages)
	return out
}

// Notes returns the advisory parse notes per language from the
// current snapshot.
func (l *Library) Notes() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string][]string, len(l.bundles))
	for lang, b := range l.bundles {
		if len(b.Notes) > 0 {
			out[lang] = append([]string(nil), b.Notes...)
		}
	}
	return out
}

// Stale reports whether any tracked content file changed (or
// disappeared) since the last Load.
func (l *Library) Stale() bool {
	l.mu.RLock()
	tracked := make(map[string]time.Time, len(l.mtimes))
	for p, t := range l.mtimes {
		tracked[p] = t
	}
	l.mu.RUnlock()

	for p, loadedAt := range tracked {
		info, err := os.Stat(p)
		if err != nil {
			return true
		}
		if !info.ModTime().Equal(loadedAt) {
			return true
		}
	}

	// A projects document added after the last load is also a change.
	l.mu.RLock()
	langs := l.languages
	l.mu.RUnlock()
	for _, lang := range langs {
		p := projectsPath(l.dir, lang)
		if _, ok := tracked[p]; ok {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}
