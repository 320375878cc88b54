package driven

// ConfigStore holds settings as flat dot-separated keys such as
// "llm.provider" or "session.max_bytes".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" when the key is unset or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is unset or not numeric.
	GetInt(key string) int

	// Set stores one value and persists it.
	Set(key string, value any) error

	// Update stores several values in a single write; a nil value removes
	// its key. Either every change is applied or none is.
	Update(values map[string]any) error

	// Load re-reads the backing storage.
	Load() error

	// Path identifies the backing storage for display.
	Path() string
}
