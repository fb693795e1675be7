package driving

import (
	"context"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// Indexer owns the write path: collection lifecycle, document upsert, and
// point deletion.
type Indexer interface {
	// EnsureCollection fetches the collection, creating it with the
	// two-space schema first if it does not exist yet.
	EnsureCollection(ctx context.Context) (domain.CollectionInfo, error)

	// Upsert chunks a document, embeds every chunk into both spaces, and
	// writes all resulting points in one batch.
	Upsert(ctx context.Context, path, content string, opts domain.UpsertOptions) (domain.UpsertReceipt, error)

	// Delete removes every point the path occupies, resolved from the
	// manifest. Returns domain.ErrNotFound for a path that was never
	// indexed.
	Delete(ctx context.Context, path string) error

	// DeletePoints removes an explicit id set, for callers that track
	// point ids themselves.
	DeletePoints(ctx context.Context, ids []string) error

	// DropCollection deletes the collection and clears the manifest.
	DropCollection(ctx context.Context) error

	// Status reports the manifest contents and collection state.
	Status(ctx context.Context) (IndexStatus, error)
}

// IndexStatus summarises the local manifest and the remote collection.
type IndexStatus struct {
	// Collection describes the remote collection when it exists.
	Collection domain.CollectionInfo

	// CollectionExists is false when the collection has not been created yet.
	CollectionExists bool

	// Documents are the manifest records, ordered by path.
	Documents []domain.IndexedDocument

	// TotalChunks is the sum of chunk counts across all documents.
	TotalChunks int
}
