// Package graphstore provides persistent storage for serialized graph
// documents, keyed by graph name.
package graphstore

import (
	"errors"
	"time"
)

// Store persists graph documents. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save stores a document under a name, overwriting any previous
	// version.
	Save(name string, data []byte) error

	// Load retrieves a document.
	// Returns ErrNotFound if no document exists under the name.
	Load(name string) ([]byte, error)

	// List returns metadata for every stored document, ordered by
	// name. Returns an empty slice (not an error) when the store is
	// empty.
	List() ([]Info, error)

	// Delete removes a document. Returns nil if it doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides document metadata without loading the content.
type Info struct {
	Name      string
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a document doesn't exist.
	ErrNotFound = errors.New("graph not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("graph store closed")
)
