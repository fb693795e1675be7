package driven

import (
	"context"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// VectorStore is the external vector database. Points are keyed by id and
// carry one vector per named space plus an arbitrary payload.
//
// Error contract: GetCollection returns domain.ErrNotFound for an absent
// collection; CreateCollection returns domain.ErrAlreadyExists when the
// collection is already present (callers treat that as a non-fatal
// outcome). Everything else is an infrastructure failure and propagates
// wrapped but otherwise unmodified.
type VectorStore interface {
	// GetCollection fetches schema and status for an existing collection.
	GetCollection(ctx context.Context, name string) (domain.CollectionInfo, error)

	// CreateCollection declares a collection with the given named-vector
	// schema.
	CreateCollection(ctx context.Context, name string, schema domain.CollectionSchema) error

	// DeleteCollection removes a collection and all its points.
	DeleteCollection(ctx context.Context, name string) error

	// Upsert writes the points in one batch, replacing by id.
	Upsert(ctx context.Context, collection string, points []domain.EmbeddedPoint) error

	// Search runs a similarity query against one named space and returns
	// hits in descending score order.
	Search(ctx context.Context, collection string, query SpaceQuery) ([]ScoredPoint, error)

	// DeletePoints removes the given point ids.
	DeletePoints(ctx context.Context, collection string, ids []string) error

	// Close releases resources.
	Close() error
}

// SpaceQuery is one similarity search against a single named vector space.
type SpaceQuery struct {
	// Space is the named vector space to query (domain.SpaceNLP or
	// domain.SpaceCode).
	Space string

	// Vector is the query embedding, sized for the space.
	Vector domain.Vector

	// Limit is the maximum number of candidates to return.
	Limit int

	// Filter optionally restricts matches by a payload attribute.
	Filter *Filter

	// WithPayload requests the stored payload alongside each hit.
	WithPayload bool
}

// Filter restricts a search to points whose payload attribute equals a
// value. Nested attributes use dotted keys (e.g. "metadata.chunkType").
type Filter struct {
	Key   string
	Value string
}

// ScoredPoint is a single similarity hit returned by the store.
type ScoredPoint struct {
	// ID is the point id.
	ID string

	// Score is the space-local similarity (cosine, higher is closer).
	Score float64

	// Payload is the stored attribute document, present when requested.
	Payload domain.Payload
}
