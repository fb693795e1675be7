package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "stereo-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testDocument(path string) domain.IndexedDocument {
	return domain.IndexedDocument{
		Path:        path,
		ContentHash: "hash-of-" + path,
		ChunkIDs:    []string{path + "-chunk-0", path + "-chunk-1"},
		IndexedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "stereo-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "manifest.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "stereo-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	nestedDir := filepath.Join(tempDir, "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Greater(t, count, 0, "should have at least one migration")
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "stereo-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Re-opening the same directory must not re-apply migrations
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_PutGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("internal/server/main.go")
	require.NoError(t, store.Put(ctx, doc))

	got, err := store.Get(ctx, doc.Path)
	require.NoError(t, err)
	assert.Equal(t, doc.Path, got.Path)
	assert.Equal(t, doc.ContentHash, got.ContentHash)
	assert.Equal(t, doc.ChunkIDs, got.ChunkIDs)
	assert.True(t, doc.IndexedAt.Equal(got.IndexedAt))
}

func TestStore_Put_EmptyPath(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.Put(context.Background(), domain.IndexedDocument{ContentHash: "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestStore_Put_ReplacesChunkIDs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("readme.md")
	require.NoError(t, store.Put(ctx, doc))

	// Re-index with a shorter chunk list; stale rows must not survive
	doc.ContentHash = "hash-v2"
	doc.ChunkIDs = []string{"readme.md-chunk-0"}
	require.NoError(t, store.Put(ctx, doc))

	got, err := store.Get(ctx, doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "hash-v2", got.ContentHash)
	assert.Equal(t, []string{"readme.md-chunk-0"}, got.ChunkIDs)
}

func TestStore_Put_DefaultsIndexedAt(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("pkg/util.go")
	doc.IndexedAt = time.Time{}
	require.NoError(t, store.Put(ctx, doc))

	got, err := store.Get(ctx, doc.Path)
	require.NoError(t, err)
	assert.False(t, got.IndexedAt.IsZero())
}

func TestStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "missing.go")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDocument("b/second.go")))
	require.NoError(t, store.Put(ctx, testDocument("a/first.go")))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a/first.go", docs[0].Path)
	assert.Equal(t, "b/second.go", docs[1].Path)
	assert.Len(t, docs[0].ChunkIDs, 2)
}

func TestStore_List_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	docs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("gone.go")
	require.NoError(t, store.Put(ctx, doc))
	require.NoError(t, store.Delete(ctx, doc.Path))

	_, err := store.Get(ctx, doc.Path)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Chunk rows cascade with the document
	var count int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM document_chunks WHERE document_path = ?", doc.Path).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_Delete_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.Delete(context.Background(), "never-indexed.go")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Clear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDocument("a.go")))
	require.NoError(t, store.Put(ctx, testDocument("b.go")))
	require.NoError(t, store.Clear(ctx))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
