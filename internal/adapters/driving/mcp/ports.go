package mcp

import (
	"github.com/stereosearch/stereo/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search serves fused dual-space queries.
	Search driving.Searcher

	// Index owns the write path: upserts, deletes, and status.
	Index driving.Indexer
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearcher
	}
	if p.Index == nil {
		return ErrMissingIndexer
	}
	return nil
}
