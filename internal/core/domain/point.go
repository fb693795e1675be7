package domain

// Named vector spaces. Every collection declares exactly these two, and
// every point stores one vector per space.
const (
	// SpaceNLP is the general-purpose semantic embedding space.
	SpaceNLP = "nlp"

	// SpaceCode is the code-oriented embedding space.
	SpaceCode = "code"
)

// Vector is a fixed-length embedding produced by one model for one space.
type Vector []float32

// Payload is the attribute document stored beside a point's vectors. It
// denormalises the owning chunk's fields plus the collection name so that
// search hits are self-describing without a second lookup.
type Payload struct {
	Path        string            `json:"path"`
	Content     string            `json:"content"`
	ContentHash string            `json:"content_hash"`
	Start       int               `json:"start"`
	End         int               `json:"end"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Collection  string            `json:"collection"`
}

// NewPayload builds the stored payload for a chunk owned by collection.
func NewPayload(c Chunk, collection string) Payload {
	return Payload{
		Path:        c.Path,
		Content:     c.Content,
		ContentHash: c.ContentHash,
		Start:       c.Loc.Start,
		End:         c.Loc.End,
		Metadata:    c.Metadata,
		Collection:  collection,
	}
}

// Module returns the grouping module recorded in the payload metadata, or
// DefaultModule when absent. Diversification buckets results by this value.
func (p Payload) Module() string {
	if m, ok := p.Metadata[MetaModule]; ok && m != "" {
		return m
	}
	return DefaultModule
}

// ChunkType returns the chunkType metadata value, empty when unset.
func (p Payload) ChunkType() string {
	return p.Metadata[MetaChunkType]
}

// EmbeddedPoint is a chunk plus one vector per named space, ready for a
// batched upsert. Its ID always equals the source chunk's ID; the store
// treats upsert as replace-by-id, which makes re-embedding idempotent.
type EmbeddedPoint struct {
	ID      string
	Vectors map[string]Vector
	Payload Payload
}
