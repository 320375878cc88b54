// Package storage holds the session envelope format shared by the
// session store adapters in its subpackages.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// MarshalSession builds the complete session payload for docs.
// When maxBytes is positive and the payload is larger, it returns an error
// wrapping domain.ErrQuotaExceeded and no payload.
func MarshalSession(docs []domain.Document, savedAt time.Time, maxBytes int) ([]byte, error) {
	payload, err := json.Marshal(domain.NewSessionEnvelope(docs, savedAt))
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}
	if maxBytes > 0 && len(payload) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrQuotaExceeded, len(payload), maxBytes)
	}
	return payload, nil
}

// UnmarshalSession parses a session payload. Unparseable payloads and
// unsupported versions wrap domain.ErrRestoreParse.
func UnmarshalSession(payload []byte) ([]domain.Document, error) {
	var env domain.SessionEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRestoreParse, err)
	}
	if env.Version < 1 || env.Version > domain.SessionVersion {
		return nil, fmt.Errorf("%w: unsupported session version %d", domain.ErrRestoreParse, env.Version)
	}

	docs := make([]domain.Document, 0, len(env.Documents))
	for _, p := range env.Documents {
		docs = append(docs, domain.FromPersisted(p))
	}
	return docs, nil
}
