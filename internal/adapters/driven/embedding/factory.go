// Package embedding provides factory functions for building the per-space
// embedding services from settings.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/stereosearch/stereo/internal/adapters/driven/embedding/ollama"
	"github.com/stereosearch/stereo/internal/adapters/driven/embedding/openai"
	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for provider connectivity validation.
const pingTimeout = 5 * time.Second

// Pair holds the two per-space embedding services. Both always come from
// the same provider; only the model configuration differs.
type Pair struct {
	NLP  driven.EmbeddingService
	Code driven.EmbeddingService
}

// Close releases both services.
func (p *Pair) Close() {
	if p.NLP != nil {
		p.NLP.Close()
	}
	if p.Code != nil {
		p.Code.Close()
	}
}

// NewPair creates one embedding service per vector space from the settings.
func NewPair(settings domain.Settings) (*Pair, error) {
	nlp, err := newService(settings, settings.NLP)
	if err != nil {
		return nil, fmt.Errorf("nlp space: %w", err)
	}

	code, err := newService(settings, settings.Code)
	if err != nil {
		nlp.Close()
		return nil, fmt.Errorf("code space: %w", err)
	}

	return &Pair{NLP: nlp, Code: code}, nil
}

func newService(settings domain.Settings, space domain.SpaceConfig) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     settings.OpenAIAPIKey,
			Model:      space.Model,
			Dimensions: space.Dimensions,
		})
	case domain.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    settings.OllamaURL,
			Model:      space.Model,
			Dimensions: space.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}

// Validate builds both services and pings the provider once per space.
// Intended for 'stereo config' to verify credentials when they are set,
// before any index run commits to them.
func Validate(settings domain.Settings) error {
	pair, err := NewPair(settings)
	if err != nil {
		return err
	}
	defer pair.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := pair.NLP.Ping(ctx); err != nil {
		return fmt.Errorf("%w: nlp space unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if err := pair.Code.Ping(ctx); err != nil {
		return fmt.Errorf("%w: code space unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}
