package domain

// SummaryState is the per-document summarisation lifecycle state.
type SummaryState string

// Summarisation states.
const (
	SummaryIdle     SummaryState = "idle"
	SummaryInFlight SummaryState = "in_flight"
	SummaryDone     SummaryState = "done"
	SummaryFailed   SummaryState = "failed"
)

// MaxSummaryInput bounds the content sent to the summariser, in characters.
const MaxSummaryInput = 5000

// SummaryFallback is shown in place of a summary when the remote call fails.
const SummaryFallback = "Summary unavailable: the summarisation service could not process this document. Try again later."

// IsValid returns true if the state is recognised.
func (s SummaryState) IsValid() bool {
	switch s {
	case SummaryIdle, SummaryInFlight, SummaryDone, SummaryFailed:
		return true
	default:
		return false
	}
}

// CanStart reports whether a new summarisation may begin from this state.
func (s SummaryState) CanStart() bool {
	return s != SummaryInFlight
}

// String returns the string representation.
func (s SummaryState) String() string {
	return string(s)
}

// Description returns a human-readable label for the state.
func (s SummaryState) Description() string {
	switch s {
	case SummaryIdle:
		return "Not summarised"
	case SummaryInFlight:
		return "Summarising…"
	case SummaryDone:
		return "Summarised"
	case SummaryFailed:
		return "Summary failed"
	default:
		return "Unknown"
	}
}
