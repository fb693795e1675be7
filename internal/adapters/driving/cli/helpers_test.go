package cli

import (
	"bytes"
	"context"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
)

// --- Mock implementations ---

// upsertCall records one Upsert invocation.
type upsertCall struct {
	path    string
	content string
	opts    domain.UpsertOptions
}

// mockIndexer implements driving.Indexer and records calls.
type mockIndexer struct {
	ensureErr error
	upsertErr error
	deleteErr error
	dropErr   error
	statusErr error

	// receipt is the template returned by Upsert; Path is filled per call.
	receipt domain.UpsertReceipt
	status  driving.IndexStatus

	upserts []upsertCall
	deletes []string
	dropped bool
}

func (m *mockIndexer) EnsureCollection(context.Context) (domain.CollectionInfo, error) {
	if m.ensureErr != nil {
		return domain.CollectionInfo{}, m.ensureErr
	}
	return domain.CollectionInfo{Name: domain.DefaultCollection}, nil
}

func (m *mockIndexer) Upsert(_ context.Context, path, content string, opts domain.UpsertOptions) (domain.UpsertReceipt, error) {
	if m.upsertErr != nil {
		return domain.UpsertReceipt{}, m.upsertErr
	}
	m.upserts = append(m.upserts, upsertCall{path: path, content: content, opts: opts})
	receipt := m.receipt
	receipt.Path = path
	return receipt, nil
}

func (m *mockIndexer) Delete(_ context.Context, path string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, path)
	return nil
}

func (m *mockIndexer) DeletePoints(context.Context, []string) error {
	return nil
}

func (m *mockIndexer) DropCollection(context.Context) error {
	if m.dropErr != nil {
		return m.dropErr
	}
	m.dropped = true
	return nil
}

func (m *mockIndexer) Status(context.Context) (driving.IndexStatus, error) {
	if m.statusErr != nil {
		return driving.IndexStatus{}, m.statusErr
	}
	return m.status, nil
}

// mockSearcher implements driving.Searcher and records the last call.
type mockSearcher struct {
	results []domain.SearchResult
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearcher) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// --- Test helpers ---

// newTestApp returns an App pre-wired with the given mocks, bypassing the
// real adapter construction.
func newTestApp(indexer driving.Indexer, searcher driving.Searcher) *App {
	return &App{
		indexer:  indexer,
		searcher: searcher,
		settings: domain.DefaultSettings(),
		wired:    true,
	}
}

// executeCmd runs the root command with the given arguments and returns the
// combined output.
func executeCmd(app *App, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root := NewRootCmd(app)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// searchHit builds a result whose payload carries the given path and module.
func searchHit(path, module string, score float64) domain.SearchResult {
	return domain.SearchResult{
		ID: path,
		Payload: domain.Payload{
			Path:     path,
			Content:  "content of " + path,
			Metadata: map[string]string{domain.MetaModule: module},
		},
		Score:      score,
		SearchType: domain.SearchTypeNLP,
		NLPScore:   score,
	}
}
