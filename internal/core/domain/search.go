package domain

// SearchType identifies which vector space first produced a result during
// fusion. A result seeded by the nlp space keeps SearchTypeNLP even after
// the code space also returns it; InBothSpaces distinguishes that case.
type SearchType string

// Search types.
const (
	SearchTypeNLP  SearchType = "nlp"
	SearchTypeCode SearchType = "code"
)

// SearchOptions configures a fusion search.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means DefaultSearchLimit.
	Limit int

	// ChunkType, when non-empty, restricts both space searches to points
	// whose payload chunkType attribute equals it. The filter is applied
	// store-side, never as a post-filter.
	ChunkType string
}

// WithDefaults returns a copy with zero-valued fields replaced by defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	return o
}

// SearchResult is a single ranked hit, enriched by score fusion.
type SearchResult struct {
	// ID is the point id of the matched chunk.
	ID string `json:"id"`

	// Payload is the stored attribute document of the matched chunk.
	Payload Payload `json:"payload"`

	// Score is the raw space-local similarity from the space that first
	// returned the result.
	Score float64 `json:"score"`

	// SearchType names that originating space.
	SearchType SearchType `json:"search_type"`

	// NLPScore is the nlp-space similarity, 0 when the nlp search did not
	// return this result.
	NLPScore float64 `json:"nlp_score"`

	// CodeScore is the code-space similarity, 0 when the code search did
	// not return this result.
	CodeScore float64 `json:"code_score"`

	// CombinedScore is the weighted blend of both space scores. It is set
	// whenever the code space returned the result; a result seen only by
	// the nlp space keeps it nil and ranks on its raw Score instead.
	CombinedScore *float64 `json:"combined_score,omitempty"`
}

// InBothSpaces reports whether both space searches returned the result.
// Fused ordering places these strictly ahead of single-space results.
func (r SearchResult) InBothSpaces() bool {
	return r.NLPScore > 0 && r.CodeScore > 0
}

// RankScore is the value ordering uses within a tier: the combined score
// when defined, otherwise the raw space-local score.
func (r SearchResult) RankScore() float64 {
	if r.CombinedScore != nil {
		return *r.CombinedScore
	}
	return r.Score
}
