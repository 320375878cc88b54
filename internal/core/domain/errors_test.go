package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrCorruptPayload", ErrCorruptPayload},
		{"ErrQuotaExceeded", ErrQuotaExceeded},
		{"ErrRestoreParse", ErrRestoreParse},
		{"ErrNoSession", ErrNoSession},
		{"ErrSessionConflict", ErrSessionConflict},
		{"ErrRemote", ErrRemote},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrSummaryInFlight", ErrSummaryInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that no two sentinel errors match each other
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrUnsupportedType, ErrCorruptPayload,
		ErrQuotaExceeded, ErrRestoreParse, ErrNoSession, ErrSessionConflict, ErrRemote,
		ErrLLMUnavailable, ErrSummaryInFlight,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

// TestErrors_Wrapped tests that wrapped errors still match their sentinel
func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("decoding slide.pptx: %w", ErrCorruptPayload)
	assert.ErrorIs(t, wrapped, ErrCorruptPayload)
	assert.NotErrorIs(t, wrapped, ErrRestoreParse)

	doubly := fmt.Errorf("restore: %w", fmt.Errorf("parse: %w", ErrRestoreParse))
	assert.ErrorIs(t, doubly, ErrRestoreParse)
}

// TestErrNoSession_DistinctFromEmpty tests the no-session message
func TestErrNoSession_DistinctFromEmpty(t *testing.T) {
	assert.Equal(t, "no saved session", ErrNoSession.Error())
}
