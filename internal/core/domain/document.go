package domain

import "time"

// IndexedDocument is the manifest record kept for every upserted path. It
// is the authoritative list of point ids a document occupies, which is what
// makes delete-by-path exact for multi-chunk documents.
type IndexedDocument struct {
	// Path is the logical source identifier.
	Path string

	// ContentHash is the hex SHA-256 of the full document content at
	// index time.
	ContentHash string

	// ChunkIDs are the point ids written for the document, in offset order.
	ChunkIDs []string

	// IndexedAt is when the document was last written to the store.
	IndexedAt time.Time
}

// ChunkCount returns the number of points the document occupies.
func (d IndexedDocument) ChunkCount() int {
	return len(d.ChunkIDs)
}

// UpsertOptions tweaks a single upsert call.
type UpsertOptions struct {
	// Metadata is merged over the derived defaults (module from the path)
	// and copied onto every chunk.
	Metadata map[string]string

	// Force re-embeds and rewrites even when the manifest already records
	// an identical content hash for the path.
	Force bool
}

// UpsertReceipt summarises one write-path run.
type UpsertReceipt struct {
	// Path is the document that was written.
	Path string

	// PointIDs are the ids written (or already present when skipped).
	PointIDs []string

	// Skipped is true when the content hash matched the manifest and the
	// write was short-circuited.
	Skipped bool
}

// ChunkCount returns the number of points covered by the receipt.
func (r UpsertReceipt) ChunkCount() int {
	return len(r.PointIDs)
}
