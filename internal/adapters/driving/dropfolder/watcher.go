package dropfolder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// DefaultSettle is how long a new file must stay unchanged before it is
// ingested.
const DefaultSettle = 500 * time.Millisecond

// Ingester accepts batches of files.
type Ingester interface {
	Ingest(ctx context.Context, files []domain.IncomingFile) ([]domain.Document, error)
}

// Watcher ingests files created in a directory.
//
// Each new file is ingested once per run, after its writes have settled.
// Files present before the watch starts, hidden files, and directories
// are ignored. Deleting a file does not remove its document.
type Watcher struct {
	dir      string
	ingester Ingester

	// Settle is the quiet period before a file is picked up.
	Settle time.Duration

	// OnIngest, when set, receives every ingested batch.
	OnIngest func([]domain.Document)

	mu      sync.Mutex
	pending map[string]time.Time
	seen    map[string]bool
}

// New creates a watcher for dir.
func New(dir string, ingester Ingester) *Watcher {
	return &Watcher{
		dir:      dir,
		ingester: ingester,
		Settle:   DefaultSettle,
		pending:  make(map[string]time.Time),
		seen:     make(map[string]bool),
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, time.Now())

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case now := <-ticker.C:
			w.flush(ctx, now, settle)
		}
	}
}

// handleEvent tracks creations and the writes that follow them.
// It reports whether the event changed the pending set.
func (w *Watcher) handleEvent(event fsnotify.Event, now time.Time) bool {
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil || isHidden(rel) {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Has(fsnotify.Create):
		if w.seen[event.Name] {
			return false
		}
		info, err := os.Stat(event.Name)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
		w.pending[event.Name] = now
		return true

	case event.Has(fsnotify.Write):
		if _, ok := w.pending[event.Name]; !ok {
			return false
		}
		w.pending[event.Name] = now
		return true

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if _, ok := w.pending[event.Name]; !ok {
			return false
		}
		delete(w.pending, event.Name)
		return true
	}
	return false
}

// flush ingests every pending file that has been quiet for settle.
func (w *Watcher) flush(ctx context.Context, now time.Time, settle time.Duration) {
	ready := w.takeReady(now, settle)
	if len(ready) == 0 {
		return
	}

	files := make([]domain.IncomingFile, 0, len(ready))
	for _, path := range ready {
		file, err := LoadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("Skipping %s: %v", path, err)
			}
			continue
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return
	}

	docs, err := w.ingester.Ingest(ctx, files)
	if err != nil {
		logger.Warn("Ingest failed: %v", err)
		return
	}
	if w.OnIngest != nil && len(docs) > 0 {
		w.OnIngest(docs)
	}
}

// takeReady removes settled paths from the pending set, sorted by path.
func (w *Watcher) takeReady(now time.Time, settle time.Duration) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
			delete(w.pending, path)
			w.seen[path] = true
		}
	}
	sort.Strings(ready)
	return ready
}
