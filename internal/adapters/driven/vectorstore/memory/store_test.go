package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

func testSchema() domain.CollectionSchema {
	return domain.CollectionSchema{
		domain.SpaceNLP:  {Size: 2, Distance: domain.DistanceCosine},
		domain.SpaceCode: {Size: 2, Distance: domain.DistanceCosine},
	}
}

func newPoint(id string, nlp, code domain.Vector, meta map[string]string) domain.EmbeddedPoint {
	return domain.EmbeddedPoint{
		ID: id,
		Vectors: map[string]domain.Vector{
			domain.SpaceNLP:  nlp,
			domain.SpaceCode: code,
		},
		Payload: domain.Payload{Path: id + ".go", Content: "content of " + id, Metadata: meta, Collection: "stereo"},
	}
}

// TestStore_CollectionLifecycle tests create, get, duplicate and delete
func TestStore_CollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.GetCollection(ctx, "stereo")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))

	info, err := store.GetCollection(ctx, "stereo")
	require.NoError(t, err)
	assert.Equal(t, "stereo", info.Name)
	assert.Equal(t, int64(0), info.PointsCount)
	assert.Equal(t, 2, info.Vectors[domain.SpaceNLP].Size)
	assert.Equal(t, domain.DistanceCosine, info.Vectors[domain.SpaceCode].Distance)

	err = store.CreateCollection(ctx, "stereo", testSchema())
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))

	require.NoError(t, store.DeleteCollection(ctx, "stereo"))
	_, err = store.GetCollection(ctx, "stereo")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// TestStore_Upsert_ReplacesByID tests idempotent writes
func TestStore_Upsert_ReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))

	point := newPoint("a", domain.Vector{1, 0}, domain.Vector{0, 1}, nil)
	require.NoError(t, store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{point}))
	require.NoError(t, store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{point}))

	info, err := store.GetCollection(ctx, "stereo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.PointsCount)
}

// TestStore_Upsert_DimensionMismatch tests schema enforcement on write
func TestStore_Upsert_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))

	bad := newPoint("a", domain.Vector{1, 0, 0}, domain.Vector{0, 1}, nil)
	err := store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
}

// TestStore_Search tests cosine ordering and the limit
func TestStore_Search(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))

	require.NoError(t, store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{
		newPoint("orthogonal", domain.Vector{0, 1}, domain.Vector{0, 1}, nil),
		newPoint("exact", domain.Vector{1, 0}, domain.Vector{1, 0}, nil),
		newPoint("diagonal", domain.Vector{1, 1}, domain.Vector{1, 1}, nil),
	}))

	hits, err := store.Search(ctx, "stereo", driven.SpaceQuery{
		Space:       domain.SpaceNLP,
		Vector:      domain.Vector{1, 0},
		Limit:       2,
		WithPayload: true,
	})
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "diagonal", hits[1].ID)
	assert.InDelta(t, 0.7071, hits[1].Score, 1e-3)
	assert.Equal(t, "exact.go", hits[0].Payload.Path)
}

// TestStore_Search_Filter tests payload attribute filtering
func TestStore_Search_Filter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))

	require.NoError(t, store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{
		newPoint("a", domain.Vector{1, 0}, domain.Vector{1, 0}, map[string]string{domain.MetaChunkType: "code"}),
		newPoint("b", domain.Vector{1, 0}, domain.Vector{1, 0}, map[string]string{domain.MetaChunkType: "doc"}),
		newPoint("c", domain.Vector{1, 0}, domain.Vector{1, 0}, nil),
	}))

	hits, err := store.Search(ctx, "stereo", driven.SpaceQuery{
		Space:       domain.SpaceNLP,
		Vector:      domain.Vector{1, 0},
		Limit:       10,
		Filter:      &driven.Filter{Key: "metadata.chunkType", Value: "code"},
		WithPayload: true,
	})
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "code", hits[0].Payload.ChunkType())
}

// TestStore_Search_WithoutPayload tests that payloads stay home unless asked
func TestStore_Search_WithoutPayload(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))
	require.NoError(t, store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{
		newPoint("a", domain.Vector{1, 0}, domain.Vector{1, 0}, nil),
	}))

	hits, err := store.Search(ctx, "stereo", driven.SpaceQuery{
		Space:  domain.SpaceNLP,
		Vector: domain.Vector{1, 0},
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Empty(t, hits[0].Payload.Path)
}

// TestStore_DeletePoints tests id-set deletion with unknown ids tolerated
func TestStore_DeletePoints(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateCollection(ctx, "stereo", testSchema()))
	require.NoError(t, store.Upsert(ctx, "stereo", []domain.EmbeddedPoint{
		newPoint("a", domain.Vector{1, 0}, domain.Vector{1, 0}, nil),
		newPoint("b", domain.Vector{0, 1}, domain.Vector{0, 1}, nil),
	}))

	require.NoError(t, store.DeletePoints(ctx, "stereo", []string{"a", "ghost"}))

	info, err := store.GetCollection(ctx, "stereo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.PointsCount)

	hits, err := store.Search(ctx, "stereo", driven.SpaceQuery{
		Space:  domain.SpaceNLP,
		Vector: domain.Vector{0, 1},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)
}
