package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docshelf/internal/codec"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// Ensure Registry implements the interface.
var _ driving.DocumentRegistry = (*Registry)(nil)

// ingestConcurrency bounds per-file work within one batch.
const ingestConcurrency = 4

// Registry owns the ordered working set of documents.
//
// All record mutation happens under mu. Change notifications are built
// under the lock and delivered outside it, each carrying a revision so
// subscribers can discard snapshots that arrive out of order.
type Registry struct {
	resources driven.ResourceProvider
	store     driven.SessionStore
	pdf       driven.PDFInspector
	now       func() time.Time

	mu          sync.Mutex
	docs        []domain.Document
	revision    uint64
	subscribers []func(domain.Snapshot)
}

// NewRegistry creates a registry.
// store and pdf are optional: without a store Restore always reports a
// first run, without pdf page counts stay unknown.
func NewRegistry(
	resources driven.ResourceProvider,
	store driven.SessionStore,
	pdf driven.PDFInspector,
) *Registry {
	return &Registry{
		resources: resources,
		store:     store,
		pdf:       pdf,
		now:       time.Now,
	}
}

// Subscribe registers fn to receive a snapshot after every mutation.
// Restore does not notify.
func (r *Registry) Subscribe(fn func(domain.Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Ingest encodes each file, allocates ids and handles, and appends the
// batch to the tail of the collection in input order.
// Files that cannot be prepared are logged and skipped.
func (r *Registry) Ingest(ctx context.Context, files []domain.IncomingFile) ([]domain.Document, error) {
	if len(files) == 0 {
		return nil, nil
	}

	logger.Section("Ingest")
	logger.Debug("Batch of %d file(s)", len(files))

	slots := make([]*domain.Document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)
	for i, file := range files {
		g.Go(func() error {
			doc, err := r.prepare(gctx, file)
			if err != nil {
				logger.Warn("Skipping %q: %v", file.Name, err)
				return nil
			}
			slots[i] = &doc
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for _, doc := range slots {
			if doc != nil {
				r.release(context.WithoutCancel(ctx), doc.Handle)
			}
		}
		return nil, fmt.Errorf("ingest cancelled: %w", err)
	}

	added := make([]domain.Document, 0, len(files))
	for _, doc := range slots {
		if doc != nil {
			added = append(added, *doc)
		}
	}
	if len(added) == 0 {
		return added, nil
	}

	r.mu.Lock()
	r.docs = append(r.docs, added...)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	logger.Info("Ingested %d of %d file(s)", len(added), len(files))
	r.notify(snap)

	return added, nil
}

// prepare builds a complete record for one incoming file.
func (r *Registry) prepare(ctx context.Context, file domain.IncomingFile) (domain.Document, error) {
	if file.Name == "" {
		return domain.Document{}, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}

	mimeType := codec.InferMIMEType(file.Name, file.MIMEType)
	kind := domain.Classify(file.Name, mimeType)
	content := codec.Encode(file.Data, mimeType, file.Name)

	size := file.SizeBytes
	if size == 0 {
		size = int64(len(file.Data))
	}

	doc := domain.Document{
		ID:           uuid.New().String(),
		Name:         file.Name,
		MIMEType:     mimeType,
		SizeBytes:    size,
		Kind:         kind,
		Content:      &content,
		SummaryState: domain.SummaryIdle,
		AddedAt:      r.now(),
	}

	if kind == domain.KindPDF {
		doc.PageCount = r.pageCount(ctx, file.Name, file.Data)
	}

	handle, err := r.resources.Create(ctx, file.Name, mimeType, file.Data)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create resource: %w", err)
	}
	doc.Handle = handle

	return doc, nil
}

// pageCount returns the page count of a PDF, or zero when unknown.
func (r *Registry) pageCount(ctx context.Context, name string, data []byte) int {
	if r.pdf == nil {
		return 0
	}
	count, err := r.pdf.PageCount(ctx, data)
	if err != nil {
		logger.Debug("Page count unavailable for %q: %v", name, err)
		return 0
	}
	return count
}

// Remove releases the document's resource and drops it from the collection.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return nil
	}
	doc := r.docs[idx]
	r.docs = slices.Delete(r.docs, idx, idx+1)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.release(ctx, doc.Handle)
	logger.Info("Removed %s (%s)", doc.Name, doc.ID)
	r.notify(snap)

	return nil
}

// Rehydrate recreates resource handles for restored records.
// Records without content pass through unresolved. Records whose content
// cannot be decoded lose it and stay listed without a preview.
func (r *Registry) Rehydrate(ctx context.Context, docs []domain.Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	for i, doc := range docs {
		out[i] = doc
		if doc.Rehydrated() || doc.Content == nil {
			continue
		}

		data, err := codec.Decode(*doc.Content)
		if err != nil {
			logger.Warn("Dropping unreadable content for %q: %v", doc.Name, err)
			out[i].Content = nil
			continue
		}

		handle, err := r.resources.Create(ctx, doc.Name, doc.MIMEType, data)
		if err != nil {
			logger.Warn("Could not recreate resource for %q: %v", doc.Name, err)
			continue
		}
		out[i].Handle = handle
	}
	return out
}

// Restore loads the saved session, rehydrates it, and replaces the
// collection without notifying subscribers, so the restored state is not
// immediately saved back. Problems with the saved content are logged and
// reported as a first run.
func (r *Registry) Restore(ctx context.Context) (domain.RestoreResult, error) {
	if r.store == nil {
		return domain.RestoreResult{FirstRun: true}, nil
	}

	logger.Section("Restore")

	saved, err := r.store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNoSession):
		logger.Debug("No saved session")
		return domain.RestoreResult{FirstRun: true}, nil
	case errors.Is(err, domain.ErrRestoreParse):
		logger.Warn("Ignoring saved session: %v", err)
		return domain.RestoreResult{FirstRun: true}, nil
	case err != nil:
		logger.Warn("Could not load saved session: %v", err)
		return domain.RestoreResult{FirstRun: true}, nil
	}

	docs := r.Rehydrate(ctx, dedupe(saved))

	result := domain.RestoreResult{Restored: len(docs)}
	for _, doc := range docs {
		if !doc.Rehydrated() {
			result.Unresolved++
		}
	}

	r.mu.Lock()
	previous := r.docs
	r.docs = docs
	r.mu.Unlock()

	for _, doc := range previous {
		r.release(ctx, doc.Handle)
	}

	logger.Info("Restored %d document(s), %d without preview", result.Restored, result.Unresolved)
	return result, nil
}

// dedupe drops records whose id was already seen, keeping the first.
func dedupe(docs []domain.Document) []domain.Document {
	seen := make(map[string]bool, len(docs))
	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" || seen[doc.ID] {
			logger.Warn("Skipping saved record with missing or duplicate id %q", doc.ID)
			continue
		}
		seen[doc.ID] = true
		out = append(out, doc)
	}
	return out
}

// List returns the documents in order.
func (r *Registry) List() []domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.docs)
}

// Get retrieves a document by ID.
func (r *Registry) Get(id string) (domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return r.docs[idx], nil
}

// Bytes returns the original bytes of a document, preferring the live
// resource and falling back to the persisted content.
func (r *Registry) Bytes(ctx context.Context, id string) ([]byte, error) {
	doc, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	if doc.Rehydrated() {
		data, err := r.resources.Open(ctx, doc.Handle)
		if err == nil {
			return data, nil
		}
		logger.Debug("Resource for %s unavailable, decoding content: %v", id, err)
	}

	if doc.Content == nil {
		return nil, fmt.Errorf("document %s has no content: %w", id, domain.ErrNotFound)
	}
	return codec.Decode(*doc.Content)
}

// BeginSummary moves a document to in-flight and notifies.
// Returns domain.ErrSummaryInFlight if a summary is already pending.
func (r *Registry) BeginSummary(id string) (domain.Document, error) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	if !r.docs[idx].SummaryState.CanStart() {
		r.mu.Unlock()
		return domain.Document{}, domain.ErrSummaryInFlight
	}
	r.docs[idx].SummaryState = domain.SummaryInFlight
	doc := r.docs[idx]
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(snap)
	return doc, nil
}

// CompleteSummary records the outcome of a summarisation.
// It reports false, changing nothing, when the document has been removed
// in the meantime.
func (r *Registry) CompleteSummary(id, summary string, state domain.SummaryState) bool {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	r.docs[idx].Summary = summary
	r.docs[idx].SummaryState = state
	r.docs[idx].SummarisedAt = r.now()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(snap)
	return true
}

// Clear empties the working set and deletes the saved session, so the
// next Restore reports a first run. Subscribers are not notified.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	previous := r.docs
	r.docs = nil
	r.revision++
	r.mu.Unlock()

	for _, doc := range previous {
		r.release(ctx, doc.Handle)
	}
	logger.Info("Cleared %d document(s)", len(previous))

	if r.store == nil {
		return nil
	}
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear saved session: %w", err)
	}
	return nil
}

// Close releases every live resource handle. Records stay listed.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	handles := make([]domain.ResourceHandle, 0, len(r.docs))
	for i := range r.docs {
		if r.docs[i].Rehydrated() {
			handles = append(handles, r.docs[i].Handle)
			r.docs[i].Handle = domain.ResourceHandle{}
		}
	}
	r.mu.Unlock()

	for _, h := range handles {
		r.release(ctx, h)
	}
}

func (r *Registry) release(ctx context.Context, handle domain.ResourceHandle) {
	if handle.IsZero() {
		return
	}
	if err := r.resources.Release(ctx, handle); err != nil {
		logger.Warn("Failed to release resource %s: %v", handle.ID, err)
	}
}

func (r *Registry) indexLocked(id string) int {
	return slices.IndexFunc(r.docs, func(d domain.Document) bool { return d.ID == id })
}

// snapshotLocked bumps the revision and copies the collection.
// Callers must hold mu.
func (r *Registry) snapshotLocked() domain.Snapshot {
	r.revision++
	return domain.Snapshot{Revision: r.revision, Documents: slices.Clone(r.docs)}
}

func (r *Registry) notify(snap domain.Snapshot) {
	r.mu.Lock()
	subscribers := slices.Clone(r.subscribers)
	r.mu.Unlock()

	for _, fn := range subscribers {
		fn(snap)
	}
}
