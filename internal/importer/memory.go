package importer

import (
	"context"
	"sync"
)

// MemorySource is an in-memory directory source. Handles are arbitrary
// strings; a handle is a directory once entries have been added under it.
type MemorySource struct {
	mu       sync.RWMutex
	dirs     map[string][]Entry
	contents map[string]string
	failures map[string]error
	calls    map[string]int
}

// NewMemorySource creates an empty source
func NewMemorySource() *MemorySource {
	return &MemorySource{
		dirs:     make(map[string][]Entry),
		contents: make(map[string]string),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// AddDir registers a directory handle with its children
func (m *MemorySource) AddDir(handle string, entries ...Entry) *MemorySource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[handle] = append(m.dirs[handle], entries...)
	return m
}

// SetContent stores readable content for a file handle
func (m *MemorySource) SetContent(handle, content string) *MemorySource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[handle] = content
	return m
}

// Fail makes every listing of handle return err
func (m *MemorySource) Fail(handle string, err error) *MemorySource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[handle] = err
	return m
}

// Calls reports how many times handle was listed
func (m *MemorySource) Calls(handle string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[handle]
}

// ListChildren implements Lister
func (m *MemorySource) ListChildren(ctx context.Context, handle string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[handle]++

	if err := m.failures[handle]; err != nil {
		return nil, err
	}
	entries, ok := m.dirs[handle]
	if !ok {
		return nil, ErrNotDirectory
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// ReadFile implements Reader
func (m *MemorySource) ReadFile(_ context.Context, handle string) (*FileContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, isDir := m.dirs[handle]; isDir {
		return nil, ErrIsDirectory
	}
	content, ok := m.contents[handle]
	if !ok {
		return nil, ErrNoContent
	}
	return newFileContent(handle, []byte(content), int64(len(content)), false), nil
}
