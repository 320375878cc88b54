package driving

import "context"

// DocumentActions hands a document's original bytes to the outside world.
type DocumentActions interface {
	// Export writes the document's original bytes to dest and returns the
	// path written. When dest is a directory the document's name is used.
	Export(ctx context.Context, id, dest string, overwrite bool) (string, error)

	// Open writes a copy of the document to the open directory and opens
	// it in the system's default application.
	Open(ctx context.Context, id string) (string, error)
}
