package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// setupConfigStore creates a store in a temp directory with env overrides
// neutralised so tests see file values only.
func setupConfigStore(t *testing.T) *ConfigStore {
	t.Helper()

	for _, key := range []string{"OPENAI_API_KEY", "QDRANT_API_KEY", "QDRANT_URL", "OLLAMA_URL"} {
		t.Setenv(key, "")
	}

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "conf", "stereo")

	store, err := NewConfigStore(nested)
	require.NoError(t, err)
	assert.DirExists(t, nested)
	assert.Equal(t, filepath.Join(nested, "config.toml"), store.Path())
}

func TestConfigStore_Load_MissingFile(t *testing.T) {
	store := setupConfigStore(t)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestConfigStore_SaveLoad(t *testing.T) {
	store := setupConfigStore(t)

	settings := domain.DefaultSettings()
	settings.Provider = domain.ProviderOllama
	settings.Collection = "notes"
	settings.ChunkSize = 500
	settings.NLP = domain.SpaceConfig{Model: "nomic-embed-text", Dimensions: 768}
	settings.Code = domain.SpaceConfig{Model: "nomic-embed-text", Dimensions: 768}
	settings.NLPWeight = 0.7
	settings.CodeWeight = 0.3
	settings.QdrantAPIKey = "secret"

	require.NoError(t, store.Save(settings))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestConfigStore_Save_RestrictedPermissions(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, store.Save(domain.DefaultSettings()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_PartialFile(t *testing.T) {
	store := setupConfigStore(t)

	// Only two keys set; everything else must keep its default
	partial := "collection = \"docs\"\n\n[fusion]\nlimit = 10\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(partial), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "docs", settings.Collection)
	assert.Equal(t, 10, settings.Limit)
	assert.Equal(t, domain.ProviderOpenAI, settings.Provider)
	assert.Equal(t, domain.DefaultChunkSize, settings.ChunkSize)
	assert.Equal(t, domain.DefaultNLPModel, settings.NLP.Model)
	assert.Equal(t, domain.DefaultOverFetch, settings.OverFetch)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("collection = [unterminated"), 0600))

	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestConfigStore_Load_EnvOverrides(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, store.Save(domain.DefaultSettings()))

	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333")

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.OpenAIAPIKey)
	assert.Equal(t, "http://qdrant.internal:6333", settings.QdrantURL)
	// Unset variables leave the file values alone
	assert.Equal(t, "http://localhost:11434", settings.OllamaURL)
}
