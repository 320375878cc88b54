package resource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Ensure DirProvider implements the interface.
var _ driven.ResourceProvider = (*DirProvider)(nil)

// DirProvider writes each resource to its own file inside a directory.
// The handle's Location is the file path.
type DirProvider struct {
	dir string
}

// NewDirProvider creates a provider rooted at dir, creating it if needed.
// If dir is empty, defaults to ~/.docshelf/data/resources.
func NewDirProvider(dir string) (*DirProvider, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".docshelf", "data", "resources")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating resource directory: %w", err)
	}
	return &DirProvider{dir: dir}, nil
}

// Dir returns the resource directory.
func (p *DirProvider) Dir() string {
	return p.dir
}

// Create writes data to a new file named after a fresh id.
// The original extension is kept so OS viewers pick the right application.
func (p *DirProvider) Create(_ context.Context, name, mimeType string, data []byte) (domain.ResourceHandle, error) {
	id := uuid.New().String()
	path := filepath.Join(p.dir, id+strings.ToLower(filepath.Ext(name)))

	if err := os.WriteFile(path, data, 0600); err != nil {
		return domain.ResourceHandle{}, fmt.Errorf("writing resource: %w", err)
	}

	return domain.ResourceHandle{ID: id, Location: path, MIMEType: mimeType}, nil
}

// Open reads the bytes behind a live handle.
func (p *DirProvider) Open(_ context.Context, handle domain.ResourceHandle) ([]byte, error) {
	if err := p.owns(handle); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(handle.Location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("resource %s: %w", handle.ID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading resource: %w", err)
	}
	return data, nil
}

// Release deletes the resource file.
func (p *DirProvider) Release(_ context.Context, handle domain.ResourceHandle) error {
	if handle.IsZero() {
		return nil
	}
	if err := p.owns(handle); err != nil {
		return err
	}
	if err := os.Remove(handle.Location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing resource: %w", err)
	}
	return nil
}

// Purge removes every resource file, keeping the directory itself.
func (p *DirProvider) Purge() error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("reading resource directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ownerFile {
			continue
		}
		if err := os.Remove(filepath.Join(p.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing resource: %w", err)
		}
	}
	return nil
}

// owns rejects handles pointing outside the provider's directory.
func (p *DirProvider) owns(handle domain.ResourceHandle) error {
	if filepath.Dir(filepath.Clean(handle.Location)) != filepath.Clean(p.dir) {
		return fmt.Errorf("%w: resource %s is not managed here", domain.ErrInvalidInput, handle.ID)
	}
	return nil
}
