// Package tui provides the interactive terminal user interface for stereo.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/stereosearch/stereo/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search serves fused dual-space queries.
	Search driving.Searcher
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearcher
	}
	return nil
}
