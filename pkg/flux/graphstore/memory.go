package graphstore

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory graph store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]storedDoc
	closed bool
}

type storedDoc struct {
	data      []byte
	updatedAt time.Time
}

// NewMemoryStore creates a new in-memory graph store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]storedDoc),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	m.docs[name] = storedDoc{
		data:      stored,
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	doc, ok := m.docs[name]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent modification
	result := make([]byte, len(doc.data))
	copy(result, doc.data)
	return result, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.docs))
	for name, doc := range m.docs {
		infos = append(infos, Info{
			Name:      name,
			UpdatedAt: doc.updatedAt,
			Size:      int64(len(doc.data)),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.docs, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.docs = nil
	return nil
}

// Len returns the number of stored documents. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
