package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/custodia-labs/docshelf/internal/logger"
)

const (
	runPrefix = "run-"
	ownerFile = ".owner"

	// unownedGrace keeps a run directory whose owner file is missing, so a
	// process that is still creating its directory is not swept.
	unownedGrace = time.Hour
)

// NewRunProvider creates a provider in a fresh run directory under root
// that belongs to the current process. Run directories left behind by
// processes that no longer exist are removed first.
func NewRunProvider(root string) (*DirProvider, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating resource directory: %w", err)
	}

	if n, err := SweepStale(root); err != nil {
		logger.Warn("Could not clean up old resources: %v", err)
	} else if n > 0 {
		logger.Debug("Removed %d stale resource directories", n)
	}

	dir, err := os.MkdirTemp(root, runPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(filepath.Join(dir, ownerFile), []byte(pid), 0600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("recording run owner: %w", err)
	}
	return &DirProvider{dir: dir}, nil
}

// Discard removes the provider's directory and everything in it.
func (p *DirProvider) Discard() error {
	if err := os.RemoveAll(p.dir); err != nil {
		return fmt.Errorf("removing resource directory: %w", err)
	}
	return nil
}

// SweepStale removes run directories under root whose owning process is
// gone, such as after a crash or SIGKILL. It returns how many were removed.
func SweepStale(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("reading resource directory: %w", err)
	}

	removed := 0
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), runPrefix) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !isStale(dir) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func isStale(dir string) bool {
	raw, err := os.ReadFile(filepath.Join(dir, ownerFile))
	if err != nil {
		info, statErr := os.Stat(dir)
		return statErr == nil && time.Since(info.ModTime()) > unownedGrace
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || pid <= 0 {
		return true
	}
	return !processAlive(pid)
}

// processAlive reports whether pid names a running process. Anything
// other than a definite "no such process" counts as alive.
func processAlive(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return !errors.Is(err, os.ErrProcessDone) && !errors.Is(err, syscall.ESRCH)
}
