package domain

import "time"

// SessionKey names the single entry holding the saved session.
const SessionKey = "docshelf.session"

// SessionVersion is the current session envelope schema version.
const SessionVersion = 1

// DefaultSessionMaxBytes is the default ceiling for a serialised session.
const DefaultSessionMaxBytes = 5 * 1024 * 1024

// MergeResult reports how a session saved elsewhere was folded into the
// working set.
type MergeResult struct {
	// Adopted counts documents added by another process.
	Adopted int
	// Dropped counts documents another process removed.
	Dropped int
	// Updated counts documents whose newer summary was taken over.
	Updated int
}

// Changed reports whether the merge altered the working set.
func (m MergeResult) Changed() bool {
	return m.Adopted+m.Dropped+m.Updated > 0
}

// SessionEnvelope is the persisted form of the working set.
type SessionEnvelope struct {
	Version   int                 `json:"version"`
	SavedAt   time.Time           `json:"saved_at"`
	Documents []PersistedDocument `json:"documents"`
}

// PersistedDocument is a Document minus its resource handle.
type PersistedDocument struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MIMEType     string          `json:"mime_type"`
	SizeBytes    int64           `json:"size_bytes"`
	Kind         DocumentKind    `json:"kind"`
	Content      *EncodedContent `json:"content,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	SummaryState SummaryState    `json:"summary_state"`
	PageCount    int             `json:"page_count,omitempty"`
	AddedAt      time.Time       `json:"added_at"`
	SummarisedAt time.Time       `json:"summarised_at,omitempty"`
}

// NewSessionEnvelope builds an envelope from documents, dropping handles.
func NewSessionEnvelope(docs []Document, savedAt time.Time) SessionEnvelope {
	env := SessionEnvelope{
		Version:   SessionVersion,
		SavedAt:   savedAt.UTC(),
		Documents: make([]PersistedDocument, len(docs)),
	}
	for i := range docs {
		env.Documents[i] = ToPersisted(docs[i])
	}
	return env
}

// ToPersisted converts a Document to its persisted form.
func ToPersisted(d Document) PersistedDocument {
	return PersistedDocument{
		ID:           d.ID,
		Name:         d.Name,
		MIMEType:     d.MIMEType,
		SizeBytes:    d.SizeBytes,
		Kind:         d.Kind,
		Content:      d.Content,
		Summary:      d.Summary,
		SummaryState: d.SummaryState,
		PageCount:    d.PageCount,
		AddedAt:      d.AddedAt,
		SummarisedAt: d.SummarisedAt,
	}
}

// FromPersisted converts a persisted record back into a Document without a handle.
// A summary that was in flight when the session was saved cannot resolve
// any more, so it restarts as idle. Unknown kinds are reclassified.
func FromPersisted(p PersistedDocument) Document {
	state := p.SummaryState
	if state == SummaryInFlight || !state.IsValid() {
		state = SummaryIdle
	}
	kind := p.Kind
	if !kind.IsValid() {
		kind = Classify(p.Name, p.MIMEType)
	}
	return Document{
		ID:           p.ID,
		Name:         p.Name,
		MIMEType:     p.MIMEType,
		SizeBytes:    p.SizeBytes,
		Kind:         kind,
		Content:      p.Content,
		Summary:      p.Summary,
		SummaryState: state,
		PageCount:    p.PageCount,
		AddedAt:      p.AddedAt,
		SummarisedAt: p.SummarisedAt,
	}
}
