package services

import (
	"context"
	"slices"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// mergePlan is the outcome of a three-way comparison between the ids
// last synchronised with the store (base), the local working set and the
// session another process saved (remote).
type mergePlan struct {
	adopt   []domain.Document
	drop    map[string]bool
	updates map[string]domain.Document
}

// planMerge decides what changes the local working set takes over:
//   - a remote id unknown to base and local was added elsewhere
//   - a base id missing from remote was removed elsewhere
//   - a shared id takes the remote summary when it is newer
//
// Ids in base that are missing locally were removed here and stay removed.
func planMerge(base map[string]bool, local, remote []domain.Document) mergePlan {
	plan := mergePlan{
		drop:    make(map[string]bool),
		updates: make(map[string]domain.Document),
	}

	localByID := make(map[string]domain.Document, len(local))
	for _, doc := range local {
		localByID[doc.ID] = doc
	}
	remoteIDs := make(map[string]bool, len(remote))

	for _, doc := range remote {
		remoteIDs[doc.ID] = true
		mine, ok := localByID[doc.ID]
		switch {
		case !ok && !base[doc.ID]:
			plan.adopt = append(plan.adopt, doc)
		case ok && newerSummary(doc, mine):
			plan.updates[doc.ID] = doc
		}
	}

	for _, doc := range local {
		if base[doc.ID] && !remoteIDs[doc.ID] {
			plan.drop[doc.ID] = true
		}
	}
	return plan
}

// newerSummary reports whether theirs carries a summary mine should take.
// A summary in flight here is never replaced.
func newerSummary(theirs, mine domain.Document) bool {
	if mine.SummaryState == domain.SummaryInFlight {
		return false
	}
	if theirs.SummaryState != domain.SummaryDone && theirs.SummaryState != domain.SummaryFailed {
		return false
	}
	return theirs.SummarisedAt.After(mine.SummarisedAt)
}

// Merge folds a session saved by another process into the working set.
// base holds the ids the caller last synchronised with the store. The
// merged snapshot is returned for the caller to persist; subscribers are
// not notified.
func (r *Registry) Merge(ctx context.Context, base map[string]bool, remote []domain.Document) (domain.Snapshot, domain.MergeResult) {
	plan := planMerge(base, r.List(), dedupe(remote))
	adopted := r.Rehydrate(ctx, plan.adopt)

	var (
		result   domain.MergeResult
		released []domain.ResourceHandle
	)

	r.mu.Lock()
	kept := r.docs[:0:0]
	for _, doc := range r.docs {
		if plan.drop[doc.ID] {
			released = append(released, doc.Handle)
			result.Dropped++
			continue
		}
		if theirs, ok := plan.updates[doc.ID]; ok && newerSummary(theirs, doc) {
			doc.Summary = theirs.Summary
			doc.SummaryState = theirs.SummaryState
			doc.SummarisedAt = theirs.SummarisedAt
			result.Updated++
		}
		kept = append(kept, doc)
	}
	for _, doc := range adopted {
		// Ingested locally while the plan was being made.
		if slices.ContainsFunc(kept, func(d domain.Document) bool { return d.ID == doc.ID }) {
			released = append(released, doc.Handle)
			continue
		}
		kept = append(kept, doc)
		result.Adopted++
	}
	r.docs = kept
	snap := r.snapshotLocked()
	r.mu.Unlock()

	for _, h := range released {
		r.release(ctx, h)
	}

	logger.Info("Merged saved session: %d adopted, %d dropped, %d updated",
		result.Adopted, result.Dropped, result.Updated)
	return snap, result
}
