package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// DualEmbedder embeds text into both vector spaces, one provider call per
// space, run concurrently. Either space failing fails the whole call, so a
// point is never written with half its vectors.
type DualEmbedder struct {
	nlp  driven.EmbeddingService
	code driven.EmbeddingService
}

// NewDualEmbedder creates a dual-space embedder from the two per-space
// services.
func NewDualEmbedder(nlp, code driven.EmbeddingService) *DualEmbedder {
	return &DualEmbedder{
		nlp:  nlp,
		code: code,
	}
}

// EmbedChunk embeds one chunk into both spaces and packages it as a point
// ready for upsert, with the payload denormalised from the chunk fields
// plus the owning collection name.
func (e *DualEmbedder) EmbedChunk(
	ctx context.Context, chunk domain.Chunk, collection string,
) (domain.EmbeddedPoint, error) {
	vectors, err := e.embedBoth(ctx, chunk.Content)
	if err != nil {
		return domain.EmbeddedPoint{}, err
	}

	return domain.EmbeddedPoint{
		ID:      chunk.ID,
		Vectors: vectors,
		Payload: domain.NewPayload(chunk, collection),
	}, nil
}

// EmbedQuery embeds query text into both spaces under the same fail-together
// contract as chunk embedding.
func (e *DualEmbedder) EmbedQuery(ctx context.Context, query string) (map[string]domain.Vector, error) {
	return e.embedBoth(ctx, query)
}

// embedBoth runs both space embeddings concurrently. The first failure
// cancels the sibling call and the whole operation errors.
func (e *DualEmbedder) embedBoth(ctx context.Context, text string) (map[string]domain.Vector, error) {
	var nlpVec, codeVec []float32

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := embedSpace(gctx, e.nlp, text)
		if err != nil {
			return fmt.Errorf("nlp space: %w", err)
		}
		nlpVec = vec
		return nil
	})
	g.Go(func() error {
		vec, err := embedSpace(gctx, e.code, text)
		if err != nil {
			return fmt.Errorf("code space: %w", err)
		}
		codeVec = vec
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[string]domain.Vector{
		domain.SpaceNLP:  nlpVec,
		domain.SpaceCode: codeVec,
	}, nil
}

// embedSpace calls one service and enforces its declared dimensionality.
func embedSpace(ctx context.Context, service driven.EmbeddingService, text string) ([]float32, error) {
	vec, err := service.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if want := service.Dimensions(); len(vec) != want {
		return nil, fmt.Errorf("model %s returned %d dimensions, expected %d: %w",
			service.ModelName(), len(vec), want, domain.ErrDimensionMismatch)
	}
	return vec, nil
}
