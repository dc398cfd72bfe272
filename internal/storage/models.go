package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// VisitorPref is a per-visitor persisted preference. Language is the
// only preference the site keeps across sessions.
type VisitorPref struct {
	VisitorID string
	Lang      string
	UpdatedAt time.Time
}

// PageView is one privacy-conscious visit record: the visitor is
// stored as a truncated hash, never as a raw identifier or IP.
type PageView struct {
	ID          string
	VisitorHash string
	Path        string
	Lang        string
	CreatedAt   time.Time
}

// Stats summarizes visit metrics for the admin endpoint.
type Stats struct {
	TotalViews     int64            `json:"total_views"`
	UniqueVisitors int64            `json:"unique_visitors"`
	ViewsToday     int64            `json:"views_today"`
	TopPaths       []PathCount      `json:"top_paths"`
	LangBreakdown  map[string]int64 `json:"lang_breakdown"`
}

// PathCount is a path with its view count.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}
