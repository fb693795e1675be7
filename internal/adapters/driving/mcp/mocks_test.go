package mcp

import (
	"context"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
)

// mockSearcher is a mock implementation of driving.Searcher.
type mockSearcher struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearcher) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	receipt domain.UpsertReceipt
	status  driving.IndexStatus
	err     error

	lastPath    string
	lastContent string
	lastOpts    domain.UpsertOptions
	deleted     []string
}

func (m *mockIndexer) EnsureCollection(_ context.Context) (domain.CollectionInfo, error) {
	return domain.CollectionInfo{}, m.err
}

func (m *mockIndexer) Upsert(
	_ context.Context,
	path, content string,
	opts domain.UpsertOptions,
) (domain.UpsertReceipt, error) {
	m.lastPath = path
	m.lastContent = content
	m.lastOpts = opts
	if m.err != nil {
		return domain.UpsertReceipt{}, m.err
	}
	receipt := m.receipt
	receipt.Path = path
	return receipt, nil
}

func (m *mockIndexer) Delete(_ context.Context, path string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, path)
	return nil
}

func (m *mockIndexer) DeletePoints(_ context.Context, _ []string) error {
	return m.err
}

func (m *mockIndexer) DropCollection(_ context.Context) error {
	return m.err
}

func (m *mockIndexer) Status(_ context.Context) (driving.IndexStatus, error) {
	return m.status, m.err
}
