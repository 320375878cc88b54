package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType marks the terminal "unsupported" rendering strategy.
	// Rendering itself succeeds with a notice; Rendering.Err reports it to
	// callers that surface a failure detail.
	ErrUnsupportedType = errors.New("unsupported type")

	// Codec and session errors.

	// ErrCorruptPayload indicates encoded content could not be decoded.
	ErrCorruptPayload = errors.New("corrupt payload")

	// ErrQuotaExceeded indicates a session save was larger than the store allows.
	// The previously saved session is left untouched.
	ErrQuotaExceeded = errors.New("session quota exceeded")

	// ErrRestoreParse indicates the saved session could not be parsed.
	ErrRestoreParse = errors.New("saved session unreadable")

	// ErrNoSession indicates nothing has been saved yet.
	// This is distinct from a saved, empty session.
	ErrNoSession = errors.New("no saved session")

	// ErrSessionConflict indicates another process saved the session since
	// this one last loaded or saved it. Nothing was written.
	ErrSessionConflict = errors.New("saved session changed by another process")

	// Summarisation errors.

	// ErrRemote indicates the summarisation backend failed.
	ErrRemote = errors.New("summarisation backend error")

	// ErrLLMUnavailable indicates no summarisation backend is configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSummaryInFlight indicates a summary is already being generated.
	ErrSummaryInFlight = errors.New("summary in flight")
)
