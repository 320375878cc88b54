// Package domain defines the core business entities for docshelf.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested file with its persisted encoding and summary state
//   - DocumentKind: The closed classification computed at ingestion
//   - SummaryState: The per-document summarisation lifecycle
//   - Strategy/Rendering: The rendering dispatch outcome
//   - SessionEnvelope: The persisted working set
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
