package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string `json:"query" jsonschema:"the search query, matched against both the nlp and code spaces"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	ChunkType string `json:"chunk_type,omitempty" jsonschema:"restrict results to one chunk type, code or doc"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single fused search result.
type SearchResultOutput struct {
	ID         string  `json:"id"`
	Path       string  `json:"path"`
	Module     string  `json:"module"`
	SearchType string  `json:"search_type"`
	Score      float64 `json:"score"`
	NLPScore   float64 `json:"nlp_score,omitempty"`
	CodeScore  float64 `json:"code_score,omitempty"`
	Content    string  `json:"content,omitempty"`
}

// IndexInput is the input schema for the index_document tool.
type IndexInput struct {
	Path      string `json:"path" jsonschema:"the document path to index"`
	Content   string `json:"content,omitempty" jsonschema:"the document text; read from the path on disk when omitted"`
	Module    string `json:"module,omitempty" jsonschema:"module name used to group results, derived from the path when omitted"`
	ChunkType string `json:"chunk_type,omitempty" jsonschema:"chunk type tag, code or doc"`
	Force     bool   `json:"force,omitempty" jsonschema:"re-embed even when the content is unchanged"`
}

// IndexOutput is the output schema for the index_document tool.
type IndexOutput struct {
	Path    string `json:"path"`
	Chunks  int    `json:"chunks"`
	Skipped bool   `json:"skipped"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	Path string `json:"path" jsonschema:"the indexed document path to remove"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
}

// StatusInput is the input schema for the index_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the index_status tool.
type StatusOutput struct {
	Collection  string `json:"collection"`
	Exists      bool   `json:"exists"`
	Points      int64  `json:"points"`
	Documents   int    `json:"documents"`
	TotalChunks int    `json:"total_chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the index across both embedding spaces and return fused results",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Chunk, embed, and index a document into both spaces",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove an indexed document and all its chunks",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report the collection state and indexed document count",
	}, s.handleStatus)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit:     input.Limit,
		ChunkType: input.ChunkType,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:         results[i].ID,
			Path:       results[i].Payload.Path,
			Module:     results[i].Payload.Module(),
			SearchType: string(results[i].SearchType),
			Score:      results[i].RankScore(),
			NLPScore:   results[i].NLPScore,
			CodeScore:  results[i].CodeScore,
			Content:    results[i].Payload.Content,
		}
	}

	return nil, output, nil
}

// handleIndex handles the index_document tool invocation.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	content := input.Content
	if content == "" {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, IndexOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
		}
		content = string(data)
	}

	var meta map[string]string
	if input.Module != "" || input.ChunkType != "" {
		meta = make(map[string]string, 2)
		if input.Module != "" {
			meta[domain.MetaModule] = input.Module
		}
		if input.ChunkType != "" {
			meta[domain.MetaChunkType] = input.ChunkType
		}
	}

	receipt, err := s.ports.Index.Upsert(ctx, input.Path, content, domain.UpsertOptions{
		Metadata: meta,
		Force:    input.Force,
	})
	if err != nil {
		return nil, IndexOutput{}, fmt.Errorf("indexing %s: %w", input.Path, err)
	}

	return nil, IndexOutput{
		Path:    receipt.Path,
		Chunks:  receipt.ChunkCount(),
		Skipped: receipt.Skipped,
	}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.ports.Index.Delete(ctx, input.Path); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, DeleteOutput{}, fmt.Errorf("%s is not indexed", input.Path)
		}
		return nil, DeleteOutput{}, fmt.Errorf("deleting %s: %w", input.Path, err)
	}

	return nil, DeleteOutput{Path: input.Path, Deleted: true}, nil
}

// handleStatus handles the index_status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.Index.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("reading status: %w", err)
	}

	return nil, StatusOutput{
		Collection:  status.Collection.Name,
		Exists:      status.CollectionExists,
		Points:      status.Collection.PointsCount,
		Documents:   len(status.Documents),
		TotalChunks: status.TotalChunks,
	}, nil
}
