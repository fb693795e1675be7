// Package qdrant provides a vector store adapter speaking the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent in the api-key header when set (Qdrant Cloud).
	APIKey string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a REST client for Qdrant collections with named vectors.
type Store struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewStore creates a new Qdrant store.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// vectorParams mirrors Qdrant's per-space schema object.
type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// createCollectionRequest declares the named-vector schema.
type createCollectionRequest struct {
	Vectors map[string]vectorParams `json:"vectors"`
}

// collectionResponse is the body of GET /collections/{name}.
type collectionResponse struct {
	Result struct {
		Status      string `json:"status"`
		PointsCount int64  `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors map[string]vectorParams `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// upsertRequest is the body of PUT /collections/{name}/points.
type upsertRequest struct {
	Points []upsertPoint `json:"points"`
}

type upsertPoint struct {
	ID      string                   `json:"id"`
	Vector  map[string]domain.Vector `json:"vector"`
	Payload domain.Payload           `json:"payload"`
}

// searchRequest is the body of POST /collections/{name}/points/search.
type searchRequest struct {
	Vector      namedVector   `json:"vector"`
	Limit       int           `json:"limit"`
	Filter      *searchFilter `json:"filter,omitempty"`
	WithPayload bool          `json:"with_payload"`
}

type namedVector struct {
	Name   string        `json:"name"`
	Vector domain.Vector `json:"vector"`
}

type searchFilter struct {
	Must []fieldCondition `json:"must"`
}

type fieldCondition struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value string `json:"value"`
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload domain.Payload `json:"payload"`
	} `json:"result"`
}

// deletePointsRequest is the body of POST /collections/{name}/points/delete.
type deletePointsRequest struct {
	Points []string `json:"points"`
}

// errorResponse carries Qdrant's error message on non-2xx statuses.
type errorResponse struct {
	Status struct {
		Error string `json:"error"`
	} `json:"status"`
}

// GetCollection fetches schema and status for an existing collection.
// Returns domain.ErrNotFound when the collection does not exist.
func (s *Store) GetCollection(ctx context.Context, name string) (domain.CollectionInfo, error) {
	var resp collectionResponse
	if err := s.do(ctx, http.MethodGet, "/collections/"+url.PathEscape(name), nil, &resp); err != nil {
		return domain.CollectionInfo{}, fmt.Errorf("get collection: %w", err)
	}

	schema := make(domain.CollectionSchema, len(resp.Result.Config.Params.Vectors))
	for space, params := range resp.Result.Config.Params.Vectors {
		schema[space] = domain.VectorParams{
			Size:     params.Size,
			Distance: domain.Distance(params.Distance),
		}
	}

	return domain.CollectionInfo{
		Name:        name,
		Vectors:     schema,
		PointsCount: resp.Result.PointsCount,
		Status:      resp.Result.Status,
	}, nil
}

// CreateCollection declares a collection with the given named-vector schema.
// Returns domain.ErrAlreadyExists when the collection is already present.
func (s *Store) CreateCollection(ctx context.Context, name string, schema domain.CollectionSchema) error {
	body := createCollectionRequest{
		Vectors: make(map[string]vectorParams, len(schema)),
	}
	for space, params := range schema {
		body.Vectors[space] = vectorParams{
			Size:     params.Size,
			Distance: string(params.Distance),
		}
	}

	if err := s.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(name), body, nil); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// DeleteCollection removes a collection and all its points.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if err := s.do(ctx, http.MethodDelete, "/collections/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Upsert writes the points in one batch, replacing by id. The request waits
// for the write to land so reads issued afterwards see the points.
func (s *Store) Upsert(ctx context.Context, collection string, points []domain.EmbeddedPoint) error {
	if len(points) == 0 {
		return nil
	}

	body := upsertRequest{
		Points: make([]upsertPoint, len(points)),
	}
	for i, p := range points {
		body.Points[i] = upsertPoint{
			ID:      p.ID,
			Vector:  p.Vectors,
			Payload: p.Payload,
		}
	}

	path := "/collections/" + url.PathEscape(collection) + "/points?wait=true"
	if err := s.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Search runs a similarity query against one named space.
func (s *Store) Search(ctx context.Context, collection string, query driven.SpaceQuery) ([]driven.ScoredPoint, error) {
	body := searchRequest{
		Vector: namedVector{
			Name:   query.Space,
			Vector: query.Vector,
		},
		Limit:       query.Limit,
		WithPayload: query.WithPayload,
	}
	if query.Filter != nil {
		body.Filter = &searchFilter{
			Must: []fieldCondition{{
				Key:   query.Filter.Key,
				Match: matchValue{Value: query.Filter.Value},
			}},
		}
	}

	var resp searchResponse
	path := "/collections/" + url.PathEscape(collection) + "/points/search"
	if err := s.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	hits := make([]driven.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, driven.ScoredPoint{
			ID:      pointIDString(r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

// DeletePoints removes the given point ids.
func (s *Store) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	path := "/collections/" + url.PathEscape(collection) + "/points/delete?wait=true"
	if err := s.do(ctx, http.MethodPost, path, deletePointsRequest{Points: ids}, nil); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// do sends one request and decodes the response into out when given.
// 404 and 409 map onto the domain sentinels so callers can branch on
// errors.Is instead of sniffing status strings.
func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("qdrant: %s: %w", apiErrorMessage(data), domain.ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("qdrant: %s: %w", apiErrorMessage(data), domain.ErrAlreadyExists)
	case resp.StatusCode >= 300:
		return fmt.Errorf("qdrant: %s %s returned status %d: %s", method, path, resp.StatusCode, apiErrorMessage(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiErrorMessage extracts Qdrant's status.error string, falling back to the
// raw body.
func apiErrorMessage(data []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Status.Error != "" {
		return errResp.Status.Error
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return "unknown error"
}

// pointIDString renders a point id, which Qdrant reports as either a UUID
// string or an unsigned integer.
func pointIDString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
