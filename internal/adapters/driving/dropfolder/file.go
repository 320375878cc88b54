// Package dropfolder turns files on disk into ingestion input, either
// once by path or continuously by watching a directory.
package dropfolder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// LoadFile reads a regular file into an IncomingFile.
// The media type is left empty so ingestion infers it from the name.
func LoadFile(path string) (domain.IncomingFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.IncomingFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return domain.IncomingFile{}, fmt.Errorf("%w: %s is not a regular file", domain.ErrInvalidInput, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.IncomingFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	return domain.IncomingFile{
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
		Data:      data,
	}, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
