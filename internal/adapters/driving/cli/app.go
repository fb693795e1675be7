// Package cli implements the stereo command line interface. Commands are
// built against the driving ports and wired through an App container, so
// tests can substitute the services without touching globals.
package cli

import (
	"fmt"
	"sync"

	"github.com/stereosearch/stereo/internal/adapters/driven/config/file"
	"github.com/stereosearch/stereo/internal/adapters/driven/embedding"
	"github.com/stereosearch/stereo/internal/adapters/driven/storage/sqlite"
	"github.com/stereosearch/stereo/internal/adapters/driven/vectorstore/qdrant"
	"github.com/stereosearch/stereo/internal/chunker"
	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
	"github.com/stereosearch/stereo/internal/core/services"
)

// App owns the wiring from configuration to services. Wiring is lazy so
// commands that never touch the index (version, config show) work without
// a reachable provider or store.
type App struct {
	// configDir and dataDir override the ~/.stereo defaults in tests.
	configDir string
	dataDir   string

	mu       sync.Mutex
	wired    bool
	config   *file.ConfigStore
	settings domain.Settings
	pair     *embedding.Pair
	manifest *sqlite.Store
	vectors  *qdrant.Store
	indexer  driving.Indexer
	searcher driving.Searcher
}

// NewApp creates an unwired App using the default ~/.stereo locations.
func NewApp() *App {
	return &App{}
}

// ConfigStore returns the TOML config store, creating its directory on
// first use.
func (a *App) ConfigStore() (*file.ConfigStore, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.configStoreLocked()
}

func (a *App) configStoreLocked() (*file.ConfigStore, error) {
	if a.config != nil {
		return a.config, nil
	}
	store, err := file.NewConfigStore(a.configDir)
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}
	a.config = store
	return store, nil
}

// LoadSettings reads the current settings from disk without wiring any
// services.
func (a *App) LoadSettings() (domain.Settings, error) {
	store, err := a.ConfigStore()
	if err != nil {
		return domain.Settings{}, err
	}
	return store.Load()
}

// Indexer returns the wired index service.
func (a *App) Indexer() (driving.Indexer, error) {
	if err := a.wire(); err != nil {
		return nil, err
	}
	return a.indexer, nil
}

// Searcher returns the wired search service.
func (a *App) Searcher() (driving.Searcher, error) {
	if err := a.wire(); err != nil {
		return nil, err
	}
	return a.searcher, nil
}

// Settings returns the settings the wired services were built from.
func (a *App) Settings() (domain.Settings, error) {
	if err := a.wire(); err != nil {
		return domain.Settings{}, err
	}
	return a.settings, nil
}

// wire builds the full pipeline once: settings, embedding pair, vector
// store, manifest, and the two services on top of them.
func (a *App) wire() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.wired {
		return nil
	}

	store, err := a.configStoreLocked()
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	pair, err := embedding.NewPair(settings)
	if err != nil {
		return fmt.Errorf("embedding provider: %w (run 'stereo config set-key' to configure)", err)
	}

	manifest, err := sqlite.NewStore(a.dataDir)
	if err != nil {
		pair.Close()
		return fmt.Errorf("open manifest: %w", err)
	}

	vectors := qdrant.NewStore(qdrant.Config{
		BaseURL: settings.QdrantURL,
		APIKey:  settings.QdrantAPIKey,
	})

	embedder := services.NewDualEmbedder(pair.NLP, pair.Code)
	split := chunker.New(chunker.WithChunkSize(settings.ChunkSize))

	indexer := services.NewIndexService(split, embedder, vectors, manifest, settings)

	a.settings = settings
	a.pair = pair
	a.manifest = manifest
	a.vectors = vectors
	a.indexer = indexer
	a.searcher = services.NewSearchService(indexer, embedder, vectors, settings)
	a.wired = true

	return nil
}

// Close releases every wired resource. Safe to call on an unwired App.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.wired {
		return nil
	}

	var firstErr error
	if a.pair != nil {
		a.pair.Close()
	}
	if a.vectors != nil {
		if err := a.vectors.Close(); err != nil {
			firstErr = err
		}
	}
	if a.manifest != nil {
		if err := a.manifest.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.wired = false
	return firstErr
}
