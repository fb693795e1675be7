// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Stereo. It lets AI assistants like Claude search and maintain the index.
package mcp

import "errors"

// Errors for missing required ports.
var (
	ErrMissingSearcher = errors.New("mcp: searcher is required")
	ErrMissingIndexer  = errors.New("mcp: indexer is required")
)
