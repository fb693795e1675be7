package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
)

func TestStatusCmd_Use(t *testing.T) {
	cmd := newStatusCmd(NewApp())
	assert.Equal(t, "status", cmd.Use)
	assert.Equal(t, "Show index status", cmd.Short)
}

func TestStatusCmd_EmptyIndex(t *testing.T) {
	indexer := &mockIndexer{status: driving.IndexStatus{CollectionExists: false}}

	out, err := executeCmd(newTestApp(indexer, nil), "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Collection: stereo")
	assert.Contains(t, out, "(not created yet)")
	assert.Contains(t, out, "No documents indexed.")
}

func TestStatusCmd_WithDocuments(t *testing.T) {
	indexedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	indexer := &mockIndexer{status: driving.IndexStatus{
		Collection: domain.CollectionInfo{
			Name:        "stereo",
			PointsCount: 5,
			Vectors: domain.CollectionSchema{
				domain.SpaceNLP:  {Size: 1536, Distance: domain.DistanceCosine},
				domain.SpaceCode: {Size: 1536, Distance: domain.DistanceCosine},
			},
		},
		CollectionExists: true,
		Documents: []domain.IndexedDocument{
			{Path: "README.md", ChunkIDs: []string{"id-1"}, IndexedAt: indexedAt},
			{Path: "src/auth.go", ChunkIDs: []string{"id-2", "id-3"}, IndexedAt: indexedAt},
		},
		TotalChunks: 3,
	}}

	out, err := executeCmd(newTestApp(indexer, nil), "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Collection: stereo")
	assert.Contains(t, out, "Points: 5")
	assert.Contains(t, out, "Spaces: nlp 1536d, code 1536d")
	assert.Contains(t, out, "Documents (2, 3 chunks):")
	assert.Contains(t, out, "README.md (1 chunks, indexed 2026-03-14 09:30:00)")
	assert.Contains(t, out, "src/auth.go (2 chunks, indexed 2026-03-14 09:30:00)")
	assert.NotContains(t, out, "No documents indexed.")
}

func TestStatusCmd_ServiceError(t *testing.T) {
	indexer := &mockIndexer{statusErr: errors.New("qdrant down")}

	_, err := executeCmd(newTestApp(indexer, nil), "status")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status failed")
}
