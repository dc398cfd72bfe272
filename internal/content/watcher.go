package content

import (
	"context"
	"log/slog"
	"time"
)

// Watcher polls content file mtimes and reloads the library when a
// document changes. A failed reload keeps the previous snapshot.
type Watcher struct {
	lib    *Library
	poll   time.Duration
	logger *slog.Logger
}

// NewWatcher creates a Watcher over lib. If pollInterval is <= 0, it
// defaults to 2s.
func NewWatcher(lib *Library, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Watcher{
		lib:    lib,
		poll:   pollInterval,
		logger: slog.Default(),
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}

		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error("content reload failed, keeping previous snapshot", "error", err)
		}
	}
}

// RunOnce reloads the library if any content file changed. Returns the
// reload error, if any; an unchanged library is not an error.
func (w *Watcher) RunOnce(ctx context.Context) error {
	if !w.lib.Stale() {
		return nil
	}
	w.logger.Info("content changed on disk, reloading")
	return w.lib.Load(ctx)
}
