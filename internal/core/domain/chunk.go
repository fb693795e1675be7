package domain

// Metadata keys with meaning to the engine. Everything else in a chunk's
// metadata map is carried through to the payload untouched.
const (
	// MetaModule groups chunks for result diversification.
	MetaModule = "module"

	// MetaChunkType tags a chunk for payload filtering at query time.
	MetaChunkType = "chunkType"
)

// DefaultModule is the grouping value assumed when a chunk carries no
// module metadata.
const DefaultModule = "root"

// Span is a half-open [Start, End) byte range within a source document.
type Span struct {
	// Start is the offset of the first byte covered.
	Start int

	// End is the offset one past the last byte covered.
	End int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Chunk is a fixed-size contiguous slice of one document, the unit of
// embedding and storage. Chunks are immutable once created; re-indexing a
// path produces a fresh chunk set whose ids line up by offset and
// overwrite the prior points.
type Chunk struct {
	// ID is derived deterministically from (Path, Loc.Start), so the same
	// slice of the same document always maps to the same point.
	ID string

	// Path is the logical source identifier shared by all chunks of one
	// document.
	Path string

	// Content is the raw text of the slice.
	Content string

	// ContentHash is a hex SHA-256 digest of Content, used to detect
	// unchanged documents without recomputing embeddings.
	ContentHash string

	// Loc is the half-open byte range of Content within the document.
	Loc Span

	// Metadata carries grouping and filter attributes (module, chunkType)
	// plus any caller-supplied keys.
	Metadata map[string]string
}

// Module returns the chunk's grouping module, or DefaultModule when the
// metadata does not carry one.
func (c Chunk) Module() string {
	if m, ok := c.Metadata[MetaModule]; ok && m != "" {
		return m
	}
	return DefaultModule
}
