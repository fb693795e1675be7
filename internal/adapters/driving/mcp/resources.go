package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stereosearch/stereo/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Stereo resources.
	uriScheme = "stereo://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the collection status.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Collection state and index counters",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	// Static resource for listing indexed documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all indexed documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for a single document's manifest record. The path is
	// URL-escaped, so src/auth.go reads as stereo://documents/src%2Fauth.go.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{path}",
		Name:        "document",
		Description: "Manifest record of a single indexed document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleStatusResource returns the collection state as JSON.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Index.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	type spaceInfo struct {
		Dimensions int    `json:"dimensions"`
		Distance   string `json:"distance"`
	}
	type statusInfo struct {
		Collection  string               `json:"collection"`
		Exists      bool                 `json:"exists"`
		Points      int64                `json:"points"`
		Spaces      map[string]spaceInfo `json:"spaces,omitempty"`
		Documents   int                  `json:"documents"`
		TotalChunks int                  `json:"total_chunks"`
	}

	info := statusInfo{
		Collection:  status.Collection.Name,
		Exists:      status.CollectionExists,
		Points:      status.Collection.PointsCount,
		Documents:   len(status.Documents),
		TotalChunks: status.TotalChunks,
	}
	if status.CollectionExists {
		info.Spaces = make(map[string]spaceInfo, len(status.Collection.Vectors))
		for name, params := range status.Collection.Vectors {
			info.Spaces[name] = spaceInfo{
				Dimensions: params.Size,
				Distance:   string(params.Distance),
			}
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentsResource returns the indexed document list as JSON.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Index.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		Path      string `json:"path"`
		Chunks    int    `json:"chunks"`
		IndexedAt string `json:"indexed_at"`
	}

	infos := make([]docInfo, len(status.Documents))
	for i := range status.Documents {
		doc := &status.Documents[i]
		infos[i] = docInfo{
			Path:      doc.Path,
			Chunks:    doc.ChunkCount(),
			IndexedAt: doc.IndexedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentResource returns one document's manifest record.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	path := extractDocumentPath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	status, err := s.ports.Index.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var doc *domain.IndexedDocument
	for i := range status.Documents {
		if status.Documents[i].Path == path {
			doc = &status.Documents[i]
			break
		}
	}
	if doc == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type docDetail struct {
		Path        string   `json:"path"`
		ContentHash string   `json:"content_hash"`
		ChunkIDs    []string `json:"chunk_ids"`
		IndexedAt   string   `json:"indexed_at"`
	}

	data, err := json.MarshalIndent(docDetail{
		Path:        doc.Path,
		ContentHash: doc.ContentHash,
		ChunkIDs:    doc.ChunkIDs,
		IndexedAt:   doc.IndexedAt.Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentPath extracts and unescapes the document path from a URI
// like stereo://documents/{path}.
func extractDocumentPath(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	escaped := strings.TrimPrefix(uri, prefix)
	path, err := url.PathUnescape(escaped)
	if err != nil {
		return ""
	}
	return path
}
