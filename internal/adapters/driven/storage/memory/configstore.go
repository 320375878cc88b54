package memory

import (
	"sync"

	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. It stands in for the TOML store in
// tests and for --data-dir-less runs.
type ConfigStore struct {
	mu     sync.Mutex
	values map[string]any
	writes int

	// WriteErr, when set, is returned by every write and nothing changes.
	WriteErr error
}

// NewConfigStore creates a store seeded with values.
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	s := &ConfigStore{values: make(map[string]any)}
	for _, m := range seed {
		for k, v := range m {
			s.values[k] = v
		}
	}
	return s
}

// Get returns the value under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString returns the string under key, or "" for a missing key or a
// value of another type.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt returns the integer under key, or 0.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Set stores one value.
func (s *ConfigStore) Set(key string, value any) error {
	return s.Update(map[string]any{key: value})
}

// Update applies values as a single write. A nil value removes its key.
func (s *ConfigStore) Update(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr
	}
	for k, v := range values {
		if v == nil {
			delete(s.values, k)
			continue
		}
		s.values[k] = v
	}
	s.writes++
	return nil
}

// Writes reports how many successful writes were made.
func (s *ConfigStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Load is a no-op.
func (s *ConfigStore) Load() error {
	return nil
}

// Path returns ":memory:".
func (s *ConfigStore) Path() string {
	return ":memory:"
}
