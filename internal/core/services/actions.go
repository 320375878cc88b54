package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
	"github.com/custodia-labs/docshelf/internal/logger"
)

const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ActionService implements the interface.
var _ driving.DocumentActions = (*ActionService)(nil)

// documentSource is the part of the registry actions need.
type documentSource interface {
	Get(id string) (domain.Document, error)
	Bytes(ctx context.Context, id string) ([]byte, error)
}

// ActionService exports documents and opens them in external viewers.
type ActionService struct {
	registry documentSource
	openDir  string

	// Opener launches the default application for a path.
	// Defaults to the platform opener.
	Opener func(path string) error
}

// NewActionService creates an action service. Documents opened with Open
// are copied into openDir first, so they outlive the process's resources.
func NewActionService(registry *Registry, openDir string) *ActionService {
	return &ActionService{
		registry: registry,
		openDir:  openDir,
		Opener:   openPath,
	}
}

// Export writes the document's original bytes to dest.
func (s *ActionService) Export(ctx context.Context, id, dest string, overwrite bool) (string, error) {
	doc, err := s.registry.Get(id)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, filepath.Base(doc.Name))
	}
	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return "", fmt.Errorf("%w: %s already exists", domain.ErrInvalidInput, dest)
		}
	}

	data, err := s.registry.Bytes(ctx, id)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", doc.Name, err)
	}
	if err := os.WriteFile(dest, data, 0600); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	logger.Debug("Exported %s to %s (%d bytes)", id, dest, len(data))
	return dest, nil
}

// Open copies the document into the open directory and launches it.
func (s *ActionService) Open(ctx context.Context, id string) (string, error) {
	if s.openDir == "" {
		return "", errors.New("open directory not configured")
	}

	// The id names a directory, so only ids of listed documents are used.
	if _, err := s.registry.Get(id); err != nil {
		return "", err
	}

	dir := filepath.Join(s.openDir, id)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create open directory: %w", err)
	}

	path, err := s.Export(ctx, id, dir, true)
	if err != nil {
		return "", err
	}

	if s.Opener == nil {
		return path, nil
	}
	if err := s.Opener(path); err != nil {
		return path, fmt.Errorf("open %s: %w", path, err)
	}
	return path, nil
}

// openPath opens a path using the system default handler.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", path)
	case osLinux:
		cmd = exec.Command("xdg-open", path)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
