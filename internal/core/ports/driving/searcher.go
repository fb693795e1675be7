package driving

import (
	"context"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// Searcher serves fused dual-space queries to external actors.
type Searcher interface {
	// Search embeds the query into both spaces, runs both similarity
	// searches, and returns the fused, diversified ranking.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
