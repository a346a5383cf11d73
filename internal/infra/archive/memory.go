package archive

import (
	"context"
	"sync"

	"github.com/silkmart/support-assistant/internal/domain/ingest"
)

type storedObject struct {
	data     []byte
	mimeType string
}

// MemoryArchive keeps payloads in process memory. It stands in when no
// object store is configured and in tests.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]storedObject
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]storedObject)}
}

// Put implements ingest.Archive.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, mimeType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = storedObject{
		data:     append([]byte(nil), data...),
		mimeType: mimeType,
	}
	return nil
}

// Get returns a stored payload, used by tests to assert archival happened.
func (a *MemoryArchive) Get(key string) ([]byte, string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	obj, ok := a.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.mimeType, true
}

// Len reports the number of stored objects.
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.objects)
}

var _ ingest.Archive = (*MemoryArchive)(nil)
