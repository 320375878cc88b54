package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults/*.txt defaults/README.md
var defaultFS embed.FS

// promptExt is the extension of prompt files.
const promptExt = ".txt"

// PromptStore loads LLM prompts from user-editable files on disk, falling
// back to the embedded defaults.
//
// Initialisation is lazy: the prompt directory and default files are
// created on the first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.docshelf/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".docshelf", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// Files that are missing or empty fall back to the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		fallback, ok := defaultPrompt(name)
		if !ok {
			if err == nil {
				err = errors.New("prompt file is empty")
			}
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		prompt = fallback
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// InitErr returns the error from lazy initialisation, if any.
// Loads still succeed from embedded defaults when it is set.
func (s *PromptStore) InitErr() error {
	s.initOnce.Do(s.initialise)
	return s.initErr
}

// initialise creates the prompt directory and writes any default file
// that does not exist yet. Existing user edits are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	entries, err := fs.ReadDir(defaultFS, "defaults")
	if err != nil {
		s.initErr = fmt.Errorf("read embedded prompts: %w", err)
		return
	}

	for _, entry := range entries {
		path := filepath.Join(s.promptDir, entry.Name())
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		content, err := defaultFS.ReadFile("defaults/" + entry.Name())
		if err != nil {
			s.initErr = fmt.Errorf("read embedded %s: %w", entry.Name(), err)
			return
		}
		if err := os.WriteFile(path, content, 0600); err != nil {
			s.initErr = fmt.Errorf("create default %s: %w", entry.Name(), err)
			return
		}
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+promptExt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// defaultPrompt returns the embedded prompt for name.
func defaultPrompt(name string) (string, bool) {
	data, err := defaultFS.ReadFile("defaults/" + name + promptExt)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
