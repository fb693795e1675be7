package driven

import (
	"context"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// ManifestStore persists the local record of indexed documents: which paths
// were written and which point ids they occupy. It is the source of truth
// for delete-by-path and for the unchanged-content short-circuit.
type ManifestStore interface {
	// Put inserts or replaces the record for a path.
	Put(ctx context.Context, doc domain.IndexedDocument) error

	// Get returns the record for a path, or domain.ErrNotFound.
	Get(ctx context.Context, path string) (domain.IndexedDocument, error)

	// List returns all records ordered by path.
	List(ctx context.Context) ([]domain.IndexedDocument, error)

	// Delete removes the record for a path, or domain.ErrNotFound.
	Delete(ctx context.Context, path string) error

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
