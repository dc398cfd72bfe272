// Package prefs provides validated, cached access to language
// preferences: the site-wide default language and the per-visitor
// override, both persisted in SQLite.
package prefs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mpcoutinho/vitae/internal/storage"
)

// ErrUnknownLanguage is returned when a language code is not in the
// configured language set.
var ErrUnknownLanguage = errors.New("unknown language")

// DefaultLangKey is the site_prefs key holding the default language.
const DefaultLangKey = "default_language"

// PrefStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type PrefStore interface {
	SetVisitorLang(visitorID, lang string) error
	GetVisitorLang(visitorID string) (string, error)
	SetSitePref(key, value string) error
	GetSitePref(key string) (string, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager validates language codes against the configured set and
// caches the site default to keep the per-request read path off the
// database.
type Manager struct {
	store     PrefStore
	languages []string
	fallback  string
	clock     Clock
	ttl       time.Duration

	mu       sync.RWMutex
	cached   string
	cachedAt time.Time
}

// NewManager creates a Manager with a 60-second default-language cache.
// fallback must be one of languages; it is used when no default has
// been persisted yet.
func NewManager(store PrefStore, languages []string, fallback string) *Manager {
	return &Manager{
		store:     store,
		languages: languages,
		fallback:  fallback,
		clock:     realClock{},
		ttl:       60 * time.Second,
	}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store PrefStore, languages []string, fallback string, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store:     store,
		languages: languages,
		fallback:  fallback,
		clock:     clock,
		ttl:       ttl,
	}
}

// Languages returns a copy of the configured language codes.
func (m *Manager) Languages() []string {
	out := make([]string, len(m.languages))
	copy(out, m.languages)
	return out
}

// Valid reports whether lang is a configured language code.
func (m *Manager) Valid(lang string) bool {
	for _, l := range m.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// DefaultLang returns the persisted site default language, falling
// back to the configured default when none is stored.
func (m *Manager) DefaultLang() (string, error) {
	m.mu.RLock()
	if m.cached != "" && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		lang := m.cached
		m.mu.RUnlock()
		return lang, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cached != "" && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return m.cached, nil
	}

	lang, err := m.store.GetSitePref(DefaultLangKey)
	if errors.Is(err, storage.ErrNotFound) {
		lang = m.fallback
	} else if err != nil {
		return "", fmt.Errorf("loading default language: %w", err)
	}
	if !m.Valid(lang) {
		// A stale stored value for a language that was since removed
		// from the configuration.
		lang = m.fallback
	}
	m.cached = lang
	m.cachedAt = m.clock.Now()
	return lang, nil
}

// SetDefaultLang persists the site default language and invalidates
// the cache.
func (m *Manager) SetDefaultLang(lang string) error {
	if !m.Valid(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.SetSitePref(DefaultLangKey, lang); err != nil {
		return fmt.Errorf("setting default language: %w", err)
	}
	m.cached = ""
	return nil
}

// VisitorLang returns the visitor's stored preference, or the site
// default when the visitor has never chosen one.
func (m *Manager) VisitorLang(visitorID string) (string, error) {
	lang, err := m.store.GetVisitorLang(visitorID)
	if errors.Is(err, storage.ErrNotFound) {
		return m.DefaultLang()
	}
	if err != nil {
		return "", fmt.Errorf("loading visitor language: %w", err)
	}
	if !m.Valid(lang) {
		return m.DefaultLang()
	}
	return lang, nil
}

// SetVisitorLang persists a visitor's language preference.
func (m *Manager) SetVisitorLang(visitorID, lang string) error {
	if !m.Valid(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if err := m.store.SetVisitorLang(visitorID, lang); err != nil {
		return fmt.Errorf("setting visitor language: %w", err)
	}
	return nil
}
