// Package memory provides in-memory implementations of the storage ports,
// used in tests and wherever persistence is not wanted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

// ManifestStore is an in-memory implementation of driven.ManifestStore.
type ManifestStore struct {
	mu   sync.RWMutex
	docs map[string]domain.IndexedDocument
}

// NewManifestStore creates a new in-memory manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{
		docs: make(map[string]domain.IndexedDocument),
	}
}

// Put inserts or replaces the record for a path.
func (s *ManifestStore) Put(_ context.Context, doc domain.IndexedDocument) error {
	if doc.Path == "" {
		return fmt.Errorf("manifest: %w: path is required", domain.ErrInvalidInput)
	}
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Path] = cloneDocument(doc)
	return nil
}

// Get returns the record for a path.
func (s *ManifestStore) Get(_ context.Context, path string) (domain.IndexedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return domain.IndexedDocument{}, domain.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// List returns all records ordered by path.
func (s *ManifestStore) List(_ context.Context) ([]domain.IndexedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.IndexedDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, cloneDocument(doc))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Delete removes the record for a path.
func (s *ManifestStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[path]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, path)
	return nil
}

// Clear removes every record.
func (s *ManifestStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]domain.IndexedDocument)
	return nil
}

// Close is a no-op for the memory store.
func (s *ManifestStore) Close() error {
	return nil
}

// cloneDocument copies a record so callers never share slice memory with
// the store.
func cloneDocument(doc domain.IndexedDocument) domain.IndexedDocument {
	out := doc
	if doc.ChunkIDs != nil {
		out.ChunkIDs = make([]string, len(doc.ChunkIDs))
		copy(out.ChunkIDs, doc.ChunkIDs)
	}
	return out
}
