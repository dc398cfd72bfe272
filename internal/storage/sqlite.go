package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding visitor preferences, site
// settings, and page-view metrics.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database
// (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "vitae.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Visitor preferences ---

// SetVisitorLang upserts the language preference for a visitor.
func (s *Store) SetVisitorLang(visitorID, lang string) error {
	_, err := s.db.Exec(`
		INSERT INTO visitor_prefs (visitor_id, lang, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET lang = excluded.lang, updated_at = excluded.updated_at`,
		visitorID, lang, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetVisitorLang returns the stored language preference for a visitor,
// or ErrNotFound if the visitor has never set one.
func (s *Store) GetVisitorLang(visitorID string) (string, error) {
	var lang string
	err := s.db.QueryRow("SELECT lang FROM visitor_prefs WHERE visitor_id = ?", visitorID).Scan(&lang)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return lang, err
}

// --- Site preferences ---

// SetSitePref upserts a site-level setting.
func (s *Store) SetSitePref(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO site_prefs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetSitePref returns a site-level setting, or ErrNotFound.
func (s *Store) GetSitePref(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM site_prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// --- Page views ---

// RecordPageView inserts a visit record.
func (s *Store) RecordPageView(v PageView) error {
	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO page_views (id, visitor_hash, path, lang, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.VisitorHash, v.Path, v.Lang, createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetStats aggregates visit metrics. topN bounds the top-paths list.
func (s *Store) GetStats(topN int) (Stats, error) {
	if topN <= 0 {
		topN = 10
	}
	stats := Stats{LangBreakdown: make(map[string]int64)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM page_views").Scan(&stats.TotalViews); err != nil {
		return Stats{}, fmt.Errorf("counting views: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT visitor_hash) FROM page_views").Scan(&stats.UniqueVisitors); err != nil {
		return Stats{}, fmt.Errorf("counting visitors: %w", err)
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour).Format(time.RFC3339)
	if err := s.db.QueryRow("SELECT COUNT(*) FROM page_views WHERE created_at >= ?", midnight).Scan(&stats.ViewsToday); err != nil {
		return Stats{}, fmt.Errorf("counting today's views: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS n FROM page_views
		GROUP BY path ORDER BY n DESC, path ASC LIMIT ?`, topN)
	if err != nil {
		return Stats{}, fmt.Errorf("querying top paths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return Stats{}, err
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	langRows, err := s.db.Query(`
		SELECT lang, COUNT(*) FROM page_views WHERE lang != '' GROUP BY lang`)
	if err != nil {
		return Stats{}, fmt.Errorf("querying language breakdown: %w", err)
	}
	defer langRows.Close()
	for langRows.Next() {
		var lang string
		var n int64
		if err := langRows.Scan(&lang, &n); err != nil {
			return Stats{}, err
		}
		stats.LangBreakdown[lang] = n
	}
	return stats, langRows.Err()
}

// PurgeViewsBefore deletes page views older than cutoff, returning the
// number of rows removed. Retention is a config concern; the store just
// executes it.
func (s *Store) PurgeViewsBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM page_views WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
