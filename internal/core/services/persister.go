package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// maxMergeAttempts bounds how often a save is retried after merging a
// session another process saved in between.
const maxMergeAttempts = 3

// WarnFunc reports a condition the user should see.
type WarnFunc func(format string, args ...any)

// Persister saves registry snapshots to a session store.
// Save failures never propagate; they are reported through Warn and the
// previously saved session stays in place.
//
// When another process sharing the store saved first, the persister loads
// that session, merges it into the registry and saves the result, so
// concurrent `add`, `watch` and `mcp serve` runs do not drop each other's
// documents.
type Persister struct {
	store    driven.SessionStore
	registry *Registry

	// Warn receives save failures. Defaults to logger.Warn.
	Warn WarnFunc

	mu     sync.Mutex
	latest uint64
	// synced holds the ids of the session last loaded or saved.
	synced map[string]bool
}

// NewPersister creates a persister writing to store.
func NewPersister(store driven.SessionStore) *Persister {
	return &Persister{
		store:  store,
		Warn:   logger.Warn,
		synced: make(map[string]bool),
	}
}

// Attach subscribes the persister to registry changes. The registry's
// current documents are taken as the last synchronised session, so Attach
// belongs right after Restore.
func (p *Persister) Attach(registry *Registry) {
	p.mu.Lock()
	p.registry = registry
	p.synced = idSet(registry.List())
	p.mu.Unlock()

	registry.Subscribe(p.OnChange)
}

// OnChange saves a snapshot unless a newer one has already been handled.
func (p *Persister) OnChange(snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if snap.Revision <= p.latest {
		logger.Debug("Dropping stale snapshot r%d (latest r%d)", snap.Revision, p.latest)
		return
	}
	p.latest = snap.Revision

	ctx := context.Background()
	for attempt := 1; ; attempt++ {
		err := p.store.Save(ctx, snap.Documents)
		switch {
		case err == nil:
			p.synced = idSet(snap.Documents)
			logger.Debug("Saved session r%d with %d document(s)", snap.Revision, len(snap.Documents))
			return
		case errors.Is(err, domain.ErrQuotaExceeded):
			p.warn("Session not saved: %v. The previously saved session is kept; remove large files to resume saving.", err)
			return
		case errors.Is(err, domain.ErrSessionConflict) && p.registry != nil && attempt < maxMergeAttempts:
			merged, ok := p.merge(ctx)
			if !ok {
				return
			}
			snap = merged
			p.latest = merged.Revision
		default:
			p.warn("Session not saved: %v", err)
			return
		}
	}
}

// merge loads the session another process saved and folds it into the
// registry. Caller must hold mu.
func (p *Persister) merge(ctx context.Context) (domain.Snapshot, bool) {
	remote, err := p.store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNoSession):
		// Cleared elsewhere.
		remote = nil
	case errors.Is(err, domain.ErrRestoreParse):
		// Unreadable; overwrite it without dropping anything.
		logger.Warn("Replacing unreadable saved session: %v", err)
		remote = nil
		p.synced = make(map[string]bool)
	case err != nil:
		p.warn("Session not saved: %v", err)
		return domain.Snapshot{}, false
	}

	snap, result := p.registry.Merge(ctx, p.synced, remote)
	if result.Changed() {
		logger.Info("Another docshelf process changed the session: %d added, %d removed, %d summaries updated",
			result.Adopted, result.Dropped, result.Updated)
	}
	return snap, true
}

func (p *Persister) warn(format string, args ...any) {
	if p.Warn == nil {
		return
	}
	p.Warn(format, args...)
}

func idSet(docs []domain.Document) map[string]bool {
	ids := make(map[string]bool, len(docs))
	for _, doc := range docs {
		ids[doc.ID] = true
	}
	return ids
}
