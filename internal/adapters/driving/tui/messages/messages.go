// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/stereosearch/stereo/internal/core/domain"
)

// SearchCompleted carries fused search results back to the model. Query is
// the query the search ran with, so stale completions can be dropped when
// the user has typed on.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}
