package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Ensure MemoryProvider implements the interface.
var _ driven.ResourceProvider = (*MemoryProvider)(nil)

// memoryScheme prefixes in-memory resource locations.
const memoryScheme = "mem://"

// MemoryProvider keeps resource bytes in memory.
type MemoryProvider struct {
	mu        sync.RWMutex
	resources map[string][]byte
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{resources: make(map[string][]byte)}
}

// Create stores a copy of data.
func (p *MemoryProvider) Create(_ context.Context, _, mimeType string, data []byte) (domain.ResourceHandle, error) {
	id := uuid.New().String()
	buf := make([]byte, len(data))
	copy(buf, data)

	p.mu.Lock()
	p.resources[id] = buf
	p.mu.Unlock()

	return domain.ResourceHandle{ID: id, Location: memoryScheme + id, MIMEType: mimeType}, nil
}

// Open returns the bytes behind a live handle.
func (p *MemoryProvider) Open(_ context.Context, handle domain.ResourceHandle) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.resources[handle.ID]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", handle.ID, domain.ErrNotFound)
	}
	return data, nil
}

// Release frees the resource.
func (p *MemoryProvider) Release(_ context.Context, handle domain.ResourceHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.resources, handle.ID)
	return nil
}

// Live returns the number of unreleased resources.
func (p *MemoryProvider) Live() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.resources)
}
