// Package memory provides an in-memory vector store. It backs tests and
// offline runs with the same observable behaviour as the Qdrant adapter:
// typed not-found/already-exists outcomes, named-vector schemas, and
// cosine-scored search.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type collection struct {
	schema domain.CollectionSchema
	points map[string]domain.EmbeddedPoint
	order  []string // insertion order, for deterministic tie-breaks
}

// Store is an in-memory implementation of the VectorStore port.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
	}
}

// GetCollection fetches schema and status for an existing collection.
func (s *Store) GetCollection(_ context.Context, name string) (domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return domain.CollectionInfo{}, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}

	schema := make(domain.CollectionSchema, len(c.schema))
	for space, params := range c.schema {
		schema[space] = params
	}

	return domain.CollectionInfo{
		Name:        name,
		Vectors:     schema,
		PointsCount: int64(len(c.points)),
		Status:      "green",
	}, nil
}

// CreateCollection declares a collection with the given named-vector schema.
func (s *Store) CreateCollection(_ context.Context, name string, schema domain.CollectionSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; ok {
		return fmt.Errorf("collection %q: %w", name, domain.ErrAlreadyExists)
	}

	cloned := make(domain.CollectionSchema, len(schema))
	for space, params := range schema {
		cloned[space] = params
	}
	s.collections[name] = &collection{
		schema: cloned,
		points: make(map[string]domain.EmbeddedPoint),
	}
	return nil
}

// DeleteCollection removes a collection and all its points.
func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	delete(s.collections, name)
	return nil
}

// Upsert writes the points, replacing by id. Vectors are validated against
// the declared schema the way the real store would reject them.
func (s *Store) Upsert(_ context.Context, name string, points []domain.EmbeddedPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}

	for _, point := range points {
		for space, vector := range point.Vectors {
			params, ok := c.schema[space]
			if !ok {
				return fmt.Errorf("%w: unknown vector space %q", domain.ErrInvalidInput, space)
			}
			if len(vector) != params.Size {
				return fmt.Errorf("space %q: expected %d dimensions, got %d: %w",
					space, params.Size, len(vector), domain.ErrDimensionMismatch)
			}
		}
	}

	for _, point := range points {
		if _, seen := c.points[point.ID]; !seen {
			c.order = append(c.order, point.ID)
		}
		c.points[point.ID] = point
	}
	return nil
}

// Search runs a cosine-scored query against one named space.
func (s *Store) Search(_ context.Context, name string, query driven.SpaceQuery) ([]driven.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}

	hits := make([]driven.ScoredPoint, 0, len(c.points))
	for _, id := range c.order {
		point := c.points[id]

		vector, ok := point.Vectors[query.Space]
		if !ok {
			continue
		}
		if query.Filter != nil {
			value, ok := payloadValue(point.Payload, query.Filter.Key)
			if !ok || value != query.Filter.Value {
				continue
			}
		}

		hit := driven.ScoredPoint{
			ID:    point.ID,
			Score: cosineSimilarity(query.Vector, vector),
		}
		if query.WithPayload {
			hit.Payload = point.Payload
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if query.Limit > 0 && len(hits) > query.Limit {
		hits = hits[:query.Limit]
	}
	return hits, nil
}

// DeletePoints removes the given point ids. Unknown ids are no-ops.
func (s *Store) DeletePoints(_ context.Context, name string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(c.points, id)
	}

	kept := c.order[:0]
	for _, id := range c.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	c.order = kept
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// payloadValue resolves a (possibly dotted) filter key against a payload.
func payloadValue(p domain.Payload, key string) (string, bool) {
	if after, ok := strings.CutPrefix(key, "metadata."); ok {
		value, ok := p.Metadata[after]
		return value, ok
	}
	switch key {
	case "path":
		return p.Path, true
	case "collection":
		return p.Collection, true
	case "content_hash":
		return p.ContentHash, true
	default:
		return "", false
	}
}

// cosineSimilarity returns the cosine of the angle between a and b, 0 for
// degenerate input.
func cosineSimilarity(a, b domain.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
