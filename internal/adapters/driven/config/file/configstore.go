package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.stereo/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".stereo")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from the TOML file. Keys absent from the file keep
// their defaults, and a missing file yields the defaults outright.
// Environment variables override the file for secrets and endpoints.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := fromSettings(domain.DefaultSettings())

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet, run on defaults
	case err != nil:
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return domain.Settings{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	settings := cfg.toSettings()
	applyEnv(&settings)
	return settings, nil
}

// Save persists the settings with restricted permissions.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := fromSettings(settings)
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyEnv overrides file values with environment variables when set.
// godotenv loads .env into the environment at startup, so these cover
// both exported variables and local .env files.
func applyEnv(settings *domain.Settings) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		settings.OpenAIAPIKey = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		settings.QdrantAPIKey = v
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		settings.QdrantURL = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		settings.OllamaURL = v
	}
}

// fileConfig mirrors domain.Settings in the on-disk TOML layout.
type fileConfig struct {
	Provider   string       `toml:"provider"`
	Collection string       `toml:"collection"`
	ChunkSize  int          `toml:"chunk_size"`
	NLP        spaceConfig  `toml:"nlp"`
	Code       spaceConfig  `toml:"code"`
	Fusion     fusionConfig `toml:"fusion"`
	Qdrant     qdrantConfig `toml:"qdrant"`
	OpenAI     openAIConfig `toml:"openai"`
	Ollama     ollamaConfig `toml:"ollama"`
}

type spaceConfig struct {
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

type fusionConfig struct {
	NLPWeight  float64 `toml:"nlp_weight"`
	CodeWeight float64 `toml:"code_weight"`
	OverFetch  float64 `toml:"over_fetch"`
	Limit      int     `toml:"limit"`
}

type qdrantConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type openAIConfig struct {
	APIKey string `toml:"api_key"`
}

type ollamaConfig struct {
	URL string `toml:"url"`
}

func fromSettings(settings domain.Settings) fileConfig {
	return fileConfig{
		Provider:   settings.Provider.String(),
		Collection: settings.Collection,
		ChunkSize:  settings.ChunkSize,
		NLP:        spaceConfig{Model: settings.NLP.Model, Dimensions: settings.NLP.Dimensions},
		Code:       spaceConfig{Model: settings.Code.Model, Dimensions: settings.Code.Dimensions},
		Fusion: fusionConfig{
			NLPWeight:  settings.NLPWeight,
			CodeWeight: settings.CodeWeight,
			OverFetch:  settings.OverFetch,
			Limit:      settings.Limit,
		},
		Qdrant: qdrantConfig{URL: settings.QdrantURL, APIKey: settings.QdrantAPIKey},
		OpenAI: openAIConfig{APIKey: settings.OpenAIAPIKey},
		Ollama: ollamaConfig{URL: settings.OllamaURL},
	}
}

func (c fileConfig) toSettings() domain.Settings {
	return domain.Settings{
		Provider:     domain.Provider(c.Provider),
		NLP:          domain.SpaceConfig{Model: c.NLP.Model, Dimensions: c.NLP.Dimensions},
		Code:         domain.SpaceConfig{Model: c.Code.Model, Dimensions: c.Code.Dimensions},
		Collection:   c.Collection,
		ChunkSize:    c.ChunkSize,
		NLPWeight:    c.Fusion.NLPWeight,
		CodeWeight:   c.Fusion.CodeWeight,
		OverFetch:    c.Fusion.OverFetch,
		Limit:        c.Fusion.Limit,
		QdrantURL:    c.Qdrant.URL,
		QdrantAPIKey: c.Qdrant.APIKey,
		OpenAIAPIKey: c.OpenAI.APIKey,
		OllamaURL:    c.Ollama.URL,
	}
}
