package domain

import "time"

// Document is one ingested file in the working set.
// Content is immutable once the document has been added; only the
// summary fields change afterwards.
type Document struct {
	// ID is the unique identifier, allocated at ingestion.
	ID string

	// Name is the original filename.
	Name string

	// MIMEType is the declared or inferred media type.
	MIMEType string

	// SizeBytes is the original file size.
	SizeBytes int64

	// Kind is the classification computed once at ingestion.
	Kind DocumentKind

	// Handle references the renderable bytes for the lifetime of the
	// owning process. It is never persisted.
	Handle ResourceHandle

	// Content is the only durable representation of the file's bytes.
	// Nil when the bytes were never captured.
	Content *EncodedContent

	// Summary is the generated summary, or the fallback message after a failure.
	Summary string

	// SummaryState is the summarisation lifecycle state.
	SummaryState SummaryState

	// PageCount is the number of pages for PDFs, zero when unknown.
	PageCount int

	// AddedAt is when the document was ingested.
	AddedAt time.Time

	// SummarisedAt is when the last summarisation resolved.
	SummarisedAt time.Time
}

// Rehydrated reports whether the document holds a live resource handle.
func (d *Document) Rehydrated() bool {
	return !d.Handle.IsZero()
}

// IncomingFile is a file handed to ingestion.
type IncomingFile struct {
	// Name is the filename, used for type inference and display.
	Name string

	// MIMEType is the declared media type, possibly empty.
	MIMEType string

	// SizeBytes is the declared size. Defaults to len(Data) when zero.
	SizeBytes int64

	// Data is the raw file content.
	Data []byte
}

// Encoding identifies how EncodedContent.Data represents the file bytes.
type Encoding string

// Supported encodings.
const (
	// EncodingText stores UTF-8 text verbatim.
	EncodingText Encoding = "text"

	// EncodingBase64 stores arbitrary bytes as standard base64.
	EncodingBase64 Encoding = "base64"
)

// EncodedContent is the persistable form of a document's bytes.
type EncodedContent struct {
	Encoding Encoding `json:"encoding"`
	Data     string   `json:"data"`
}

// IsText reports whether the content is stored as text.
func (c *EncodedContent) IsText() bool {
	return c != nil && c.Encoding == EncodingText
}

// ResourceHandle is a process-local reference to renderable bytes.
// It must be released explicitly when the document is removed.
type ResourceHandle struct {
	// ID identifies the resource within its provider.
	ID string

	// Location is where a viewer can resolve the bytes (a file path or mem:// URI).
	Location string

	// MIMEType is the media type the resource was created with.
	MIMEType string
}

// IsZero reports whether the handle is unset.
func (h ResourceHandle) IsZero() bool {
	return h.ID == ""
}

// RestoreResult describes the outcome of restoring the previous session.
type RestoreResult struct {
	// FirstRun is true when no session had been saved, or it could not be read.
	FirstRun bool

	// Restored is the number of documents placed back into the registry.
	Restored int

	// Unresolved counts restored documents that could not be rehydrated.
	Unresolved int
}

// Snapshot is a change notification from the registry.
type Snapshot struct {
	// Revision increases with every mutation.
	Revision uint64

	// Documents is a copy of the ordered collection.
	Documents []Document
}
