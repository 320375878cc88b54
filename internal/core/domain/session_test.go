package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionEnvelope_DropsHandles(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	docs := []Document{
		{
			ID:           "doc-1",
			Name:         "report.md",
			Kind:         KindMarkdown,
			Handle:       ResourceHandle{ID: "res-1", Location: "/tmp/res-1.md"},
			Content:      &EncodedContent{Encoding: EncodingText, Data: "# Title"},
			SummaryState: SummaryDone,
			Summary:      "Short summary.",
		},
		{ID: "doc-2", Name: "slide.pptx", Kind: KindPresentation, SummaryState: SummaryIdle},
	}

	env := NewSessionEnvelope(docs, now)

	assert.Equal(t, SessionVersion, env.Version)
	assert.Equal(t, now, env.SavedAt)
	require.Len(t, env.Documents, 2)
	assert.Equal(t, "doc-1", env.Documents[0].ID)
	assert.Equal(t, "Short summary.", env.Documents[0].Summary)
	assert.Equal(t, "doc-2", env.Documents[1].ID)

	restored := FromPersisted(env.Documents[0])
	assert.True(t, restored.Handle.IsZero())
	assert.Equal(t, docs[0].Content, restored.Content)
}

func TestFromPersisted_ResetsInFlight(t *testing.T) {
	doc := FromPersisted(PersistedDocument{ID: "doc-1", Name: "a.md", Kind: KindMarkdown, SummaryState: SummaryInFlight})
	assert.Equal(t, SummaryIdle, doc.SummaryState)
}

func TestFromPersisted_InvalidStateAndKind(t *testing.T) {
	doc := FromPersisted(PersistedDocument{ID: "doc-1", Name: "slide.pptx", Kind: "legacy", SummaryState: "weird"})
	assert.Equal(t, SummaryIdle, doc.SummaryState)
	assert.Equal(t, KindPresentation, doc.Kind)
}

func TestToPersisted_RoundTrip(t *testing.T) {
	added := time.Now().UTC().Truncate(time.Second)
	doc := Document{
		ID:           "doc-9",
		Name:         "paper.pdf",
		MIMEType:     "application/pdf",
		SizeBytes:    2048,
		Kind:         KindPDF,
		Content:      &EncodedContent{Encoding: EncodingBase64, Data: "JVBERi0="},
		SummaryState: SummaryFailed,
		Summary:      SummaryFallback,
		PageCount:    3,
		AddedAt:      added,
	}

	back := FromPersisted(ToPersisted(doc))
	assert.Equal(t, doc, back)
}
