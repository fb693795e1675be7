package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
	"github.com/stereosearch/stereo/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// collectionEnsurer is the slice of the write path the search path needs:
// making sure the collection exists before querying it.
type collectionEnsurer interface {
	EnsureCollection(ctx context.Context) (domain.CollectionInfo, error)
}

// SearchService is the fusion query engine. A query is embedded into both
// spaces, both similarity searches run concurrently with an over-fetched
// candidate limit, and the two candidate lists are fused, ranked in two
// tiers and diversified across modules.
type SearchService struct {
	ensurer  collectionEnsurer
	embedder *DualEmbedder
	store    driven.VectorStore
	settings domain.Settings
}

// NewSearchService creates a new search service.
func NewSearchService(
	ensurer collectionEnsurer,
	embedder *DualEmbedder,
	store driven.VectorStore,
	settings domain.Settings,
) *SearchService {
	return &SearchService{
		ensurer:  ensurer,
		embedder: embedder,
		store:    store,
		settings: settings,
	}
}

// Search runs the full fusion pipeline for one query.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	opts = opts.WithDefaults()
	logger.Debug("Limit: %d, chunk type filter: %q", opts.Limit, opts.ChunkType)

	if _, err := s.ensurer.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	vectors, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates := candidateLimit(opts.Limit, s.settings.OverFetch)
	logger.Debug("Per-space candidate limit: %d", candidates)

	// The same filter goes to both spaces, store-side
	var filter *driven.Filter
	if opts.ChunkType != "" {
		filter = &driven.Filter{Key: "metadata." + domain.MetaChunkType, Value: opts.ChunkType}
	}

	var nlpHits, codeHits []driven.ScoredPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := s.searchSpace(gctx, domain.SpaceNLP, vectors[domain.SpaceNLP], candidates, filter)
		if err != nil {
			return err
		}
		nlpHits = hits
		return nil
	})
	g.Go(func() error {
		hits, err := s.searchSpace(gctx, domain.SpaceCode, vectors[domain.SpaceCode], candidates, filter)
		if err != nil {
			return err
		}
		codeHits = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Raw candidates: nlp=%d, code=%d", len(nlpHits), len(codeHits))

	results := s.fuse(nlpHits, codeHits)
	logger.Debug("Fused: %d unique results", len(results))

	rank(results)
	results = diversify(results, opts.Limit)
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// searchSpace runs one space's similarity search.
func (s *SearchService) searchSpace(
	ctx context.Context, space string, vector domain.Vector, limit int, filter *driven.Filter,
) ([]driven.ScoredPoint, error) {
	hits, err := s.store.Search(ctx, s.settings.Collection, driven.SpaceQuery{
		Space:       space,
		Vector:      vector,
		Limit:       limit,
		Filter:      filter,
		WithPayload: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", space, err)
	}
	return hits, nil
}

// fuse merges the two candidate lists keyed by point id. nlp candidates
// seed the table; code candidates either blend into an existing entry or
// join as code-originated results. A result only the nlp space returned
// keeps a nil CombinedScore and ranks on its raw score, while a result
// only the code space returned gets its combined score from the code
// weight alone.
func (s *SearchService) fuse(nlpHits, codeHits []driven.ScoredPoint) []domain.SearchResult {
	merged := make(map[string]*domain.SearchResult, len(nlpHits)+len(codeHits))
	order := make([]string, 0, len(nlpHits)+len(codeHits))

	for _, hit := range nlpHits {
		if _, ok := merged[hit.ID]; ok {
			continue
		}
		merged[hit.ID] = &domain.SearchResult{
			ID:         hit.ID,
			Payload:    hit.Payload,
			Score:      hit.Score,
			SearchType: domain.SearchTypeNLP,
			NLPScore:   hit.Score,
		}
		order = append(order, hit.ID)
	}

	for _, hit := range codeHits {
		if result, ok := merged[hit.ID]; ok {
			result.CodeScore = hit.Score
			combined := result.NLPScore*s.settings.NLPWeight + hit.Score*s.settings.CodeWeight
			result.CombinedScore = &combined
			continue
		}
		combined := hit.Score * s.settings.CodeWeight
		merged[hit.ID] = &domain.SearchResult{
			ID:            hit.ID,
			Payload:       hit.Payload,
			Score:         hit.Score,
			SearchType:    domain.SearchTypeCode,
			CodeScore:     hit.Score,
			CombinedScore: &combined,
		}
		order = append(order, hit.ID)
	}

	// Insertion order, not map order, so fusion output is deterministic
	results := make([]domain.SearchResult, 0, len(order))
	for _, id := range order {
		results = append(results, *merged[id])
	}
	return results
}

// rank orders results in place: results both spaces returned form a strict
// first tier, then each tier sorts descending by rank score. The stable
// sort keeps fusion insertion order for exact score ties.
func rank(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].InBothSpaces() != results[j].InBothSpaces() {
			return results[i].InBothSpaces()
		}
		return results[i].RankScore() > results[j].RankScore()
	})
}

// diversify spreads the ranked results across modules: one result per
// module in first-appearance order, cycling until limit results are
// collected or every module runs dry. Rank order is preserved within each
// module.
func diversify(results []domain.SearchResult, limit int) []domain.SearchResult {
	groups := make(map[string][]domain.SearchResult)
	var moduleOrder []string
	for _, result := range results {
		module := result.Payload.Module()
		if _, ok := groups[module]; !ok {
			moduleOrder = append(moduleOrder, module)
		}
		groups[module] = append(groups[module], result)
	}

	out := make([]domain.SearchResult, 0, min(limit, len(results)))
	for len(out) < limit {
		progressed := false
		for _, module := range moduleOrder {
			if len(groups[module]) == 0 {
				continue
			}
			out = append(out, groups[module][0])
			groups[module] = groups[module][1:]
			progressed = true
			if len(out) == limit {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

// candidateLimit is the per-space over-fetch: ceil(limit * multiplier).
func candidateLimit(limit int, multiplier float64) int {
	n := int(math.Ceil(float64(limit) * multiplier))
	if n < limit {
		return limit
	}
	return n
}
