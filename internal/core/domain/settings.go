package domain

import "fmt"

// Provider identifies an embedding provider backend.
type Provider string

// Available providers.
const (
	// ProviderOpenAI is the OpenAI cloud embeddings API.
	ProviderOpenAI Provider = "openai"

	// ProviderOllama is a local Ollama instance.
	ProviderOllama Provider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Default configuration values. Dimensions apply to both spaces in the
// default OpenAI configuration.
const (
	// DefaultChunkSize is the chunk window size in bytes.
	DefaultChunkSize = 1000

	// DefaultDimensions is the per-space vector dimensionality.
	DefaultDimensions = 1536

	// DefaultSearchLimit is the result count when the caller asks for none.
	DefaultSearchLimit = 5

	// DefaultOverFetch is the per-space candidate multiplier applied to
	// the limit before fusion, leaving room for deduplication.
	DefaultOverFetch = 1.5

	// DefaultNLPWeight and DefaultCodeWeight blend the two space scores
	// into a combined score. The semantic space is weighted higher.
	DefaultNLPWeight  = 0.6
	DefaultCodeWeight = 0.4

	// DefaultCollection is the collection name when none is configured.
	DefaultCollection = "stereo"

	// DefaultNLPModel and DefaultCodeModel are the OpenAI model ids used
	// for each space. Both are requested at DefaultDimensions.
	DefaultNLPModel  = "text-embedding-3-small"
	DefaultCodeModel = "text-embedding-3-large"
)

// SpaceConfig is the embedding model contract for one vector space.
type SpaceConfig struct {
	// Model is the provider-specific model identifier.
	Model string

	// Dimensions is the fixed output vector length.
	Dimensions int
}

// Settings is the static, process-wide configuration surface. It is loaded
// once at startup and passed into constructors; nothing reads it ambiently.
type Settings struct {
	// Provider selects the embedding backend for both spaces.
	Provider Provider

	// NLP and Code configure the model behind each vector space.
	NLP  SpaceConfig
	Code SpaceConfig

	// Collection is the vector store namespace for this dataset.
	Collection string

	// ChunkSize is the chunk window size in bytes.
	ChunkSize int

	// NLPWeight and CodeWeight are the fusion blend weights.
	NLPWeight  float64
	CodeWeight float64

	// OverFetch is the per-space candidate multiplier before fusion.
	OverFetch float64

	// Limit is the default search result count.
	Limit int

	// QdrantURL and QdrantAPIKey locate the vector store.
	QdrantURL    string
	QdrantAPIKey string

	// OpenAIAPIKey authenticates the OpenAI provider.
	OpenAIAPIKey string

	// OllamaURL locates a local Ollama instance.
	OllamaURL string
}

// DefaultSettings returns the standard configuration: OpenAI embeddings at
// 1536 dimensions in both spaces, a local Qdrant, and the stock fusion
// parameters.
func DefaultSettings() Settings {
	return Settings{
		Provider:   ProviderOpenAI,
		NLP:        SpaceConfig{Model: DefaultNLPModel, Dimensions: DefaultDimensions},
		Code:       SpaceConfig{Model: DefaultCodeModel, Dimensions: DefaultDimensions},
		Collection: DefaultCollection,
		ChunkSize:  DefaultChunkSize,
		NLPWeight:  DefaultNLPWeight,
		CodeWeight: DefaultCodeWeight,
		OverFetch:  DefaultOverFetch,
		Limit:      DefaultSearchLimit,
		QdrantURL:  "http://localhost:6333",
		OllamaURL:  "http://localhost:11434",
	}
}

// Validate checks the settings for values the engine cannot run with.
func (s Settings) Validate() error {
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, s.Provider)
	}
	if s.Collection == "" {
		return fmt.Errorf("%w: collection name is empty", ErrInvalidInput)
	}
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, s.ChunkSize)
	}
	if s.NLP.Model == "" || s.Code.Model == "" {
		return fmt.Errorf("%w: both space models must be set", ErrInvalidInput)
	}
	if s.NLP.Dimensions <= 0 || s.Code.Dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", ErrInvalidInput)
	}
	if s.NLPWeight < 0 || s.CodeWeight < 0 {
		return fmt.Errorf("%w: fusion weights must be non-negative", ErrInvalidInput)
	}
	if s.OverFetch < 1 {
		return fmt.Errorf("%w: over-fetch multiplier must be at least 1, got %g", ErrInvalidInput, s.OverFetch)
	}
	return nil
}

// Schema returns the two-space collection schema the settings declare.
func (s Settings) Schema() CollectionSchema {
	return CollectionSchema{
		SpaceNLP:  {Size: s.NLP.Dimensions, Distance: DistanceCosine},
		SpaceCode: {Size: s.Code.Dimensions, Distance: DistanceCosine},
	}
}
