package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stereosearch/stereo/internal/chunker"
	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
	"github.com/stereosearch/stereo/internal/logger"
)

// embedConcurrency bounds how many chunks embed in parallel during one
// upsert. Each chunk still costs two provider calls.
const embedConcurrency = 4

// Ensure IndexService implements the interface.
var _ driving.Indexer = (*IndexService)(nil)

// IndexService owns the write path: collection lifecycle, document upsert
// and point deletion. The manifest store records which point ids each path
// occupies, so deletes address the exact id set of a document rather than
// guessing.
type IndexService struct {
	chunker  *chunker.Chunker
	embedder *DualEmbedder
	store    driven.VectorStore
	manifest driven.ManifestStore
	settings domain.Settings
}

// NewIndexService creates a new index service.
func NewIndexService(
	splitter *chunker.Chunker,
	embedder *DualEmbedder,
	store driven.VectorStore,
	manifest driven.ManifestStore,
	settings domain.Settings,
) *IndexService {
	return &IndexService{
		chunker:  splitter,
		embedder: embedder,
		store:    store,
		manifest: manifest,
		settings: settings,
	}
}

// EnsureCollection fetches the collection, creating it with the two-space
// schema first when the store reports it missing. A concurrent creator
// winning the race is tolerated; any other store failure propagates.
func (s *IndexService) EnsureCollection(ctx context.Context) (domain.CollectionInfo, error) {
	name := s.settings.Collection

	info, err := s.store.GetCollection(ctx, name)
	if err == nil {
		if err := s.checkSchema(info); err != nil {
			return domain.CollectionInfo{}, err
		}
		return info, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.CollectionInfo{}, fmt.Errorf("get collection: %w", err)
	}

	logger.Info("Collection %q not found, creating", name)
	err = s.store.CreateCollection(ctx, name, s.settings.Schema())
	if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return domain.CollectionInfo{}, fmt.Errorf("create collection: %w", err)
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		logger.Debug("Collection %q created concurrently elsewhere", name)
	}

	info, err = s.store.GetCollection(ctx, name)
	if err != nil {
		return domain.CollectionInfo{}, fmt.Errorf("get collection after create: %w", err)
	}
	return info, nil
}

// checkSchema verifies an existing collection matches the configured
// per-space dimensions before any vectors are written against it.
func (s *IndexService) checkSchema(info domain.CollectionInfo) error {
	for space, want := range s.settings.Schema() {
		got, ok := info.Vectors[space]
		if !ok {
			return fmt.Errorf("collection %q is missing space %q: %w",
				info.Name, space, domain.ErrDimensionMismatch)
		}
		if got.Size != want.Size {
			return fmt.Errorf("collection %q space %q has %d dimensions, settings expect %d: %w",
				info.Name, space, got.Size, want.Size, domain.ErrDimensionMismatch)
		}
	}
	return nil
}

// Upsert chunks a document, embeds every chunk into both spaces and writes
// all resulting points in a single batch. When the manifest already records
// an identical content hash for the path the write is skipped entirely,
// unless opts.Force is set.
func (s *IndexService) Upsert(
	ctx context.Context, path, content string, opts domain.UpsertOptions,
) (domain.UpsertReceipt, error) {
	logger.Section("Index Document")
	logger.Debug("Path: %s (%d bytes)", path, len(content))

	if strings.TrimSpace(path) == "" {
		return domain.UpsertReceipt{}, fmt.Errorf("upsert: %w: path is empty", domain.ErrInvalidInput)
	}

	if _, err := s.EnsureCollection(ctx); err != nil {
		return domain.UpsertReceipt{}, err
	}

	previous, err := s.manifest.Get(ctx, path)
	knownBefore := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.UpsertReceipt{}, fmt.Errorf("manifest lookup: %w", err)
	}

	docHash := chunker.HashContent(content)
	if knownBefore && !opts.Force && previous.ContentHash == docHash {
		logger.Debug("Content unchanged, skipping %s", path)
		return domain.UpsertReceipt{
			Path:     path,
			PointIDs: previous.ChunkIDs,
			Skipped:  true,
		}, nil
	}

	chunks := s.chunker.Split(path, content, opts.Metadata)
	logger.Debug("Chunks: %d", len(chunks))

	points := make([]domain.EmbeddedPoint, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			point, err := s.embedder.EmbedChunk(gctx, chunk, s.settings.Collection)
			if err != nil {
				return fmt.Errorf("embed chunk %s [%d:%d): %w", chunk.Path, chunk.Loc.Start, chunk.Loc.End, err)
			}
			points[i] = point
			return nil
		})
	}
	// All-or-nothing: any chunk failing to embed means nothing is written
	if err := g.Wait(); err != nil {
		return domain.UpsertReceipt{}, err
	}

	if err := s.store.Upsert(ctx, s.settings.Collection, points); err != nil {
		return domain.UpsertReceipt{}, fmt.Errorf("upsert points: %w", err)
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}

	// Points from a previous, longer version of the document are now stale
	if knownBefore {
		if stale := diffIDs(previous.ChunkIDs, ids); len(stale) > 0 {
			logger.Debug("Removing %d stale points", len(stale))
			if err := s.store.DeletePoints(ctx, s.settings.Collection, stale); err != nil {
				return domain.UpsertReceipt{}, fmt.Errorf("delete stale points: %w", err)
			}
		}
	}

	record := domain.IndexedDocument{
		Path:        path,
		ContentHash: docHash,
		ChunkIDs:    ids,
		IndexedAt:   time.Now().UTC(),
	}
	if err := s.manifest.Put(ctx, record); err != nil {
		return domain.UpsertReceipt{}, fmt.Errorf("record manifest: %w", err)
	}

	logger.Info("Indexed %s: %d chunks", path, len(ids))
	return domain.UpsertReceipt{Path: path, PointIDs: ids}, nil
}

// Delete removes every point the path occupies, resolved from the manifest.
func (s *IndexService) Delete(ctx context.Context, path string) error {
	logger.Section("Delete Document")
	logger.Debug("Path: %s", path)

	doc, err := s.manifest.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	if len(doc.ChunkIDs) > 0 {
		if err := s.store.DeletePoints(ctx, s.settings.Collection, doc.ChunkIDs); err != nil {
			return fmt.Errorf("delete points: %w", err)
		}
	}

	if err := s.manifest.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete manifest record: %w", err)
	}

	logger.Info("Deleted %s: %d points", path, len(doc.ChunkIDs))
	return nil
}

// DeletePoints removes an explicit id set, for callers that track point ids
// themselves. The manifest is not consulted.
func (s *IndexService) DeletePoints(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.DeletePoints(ctx, s.settings.Collection, ids); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// DropCollection deletes the collection and clears the manifest. Dropping a
// collection that was never created still clears the manifest.
func (s *IndexService) DropCollection(ctx context.Context) error {
	err := s.store.DeleteCollection(ctx, s.settings.Collection)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete collection: %w", err)
	}

	if err := s.manifest.Clear(ctx); err != nil {
		return fmt.Errorf("clear manifest: %w", err)
	}

	logger.Info("Dropped collection %q", s.settings.Collection)
	return nil
}

// Status reports the manifest contents and the remote collection state.
func (s *IndexService) Status(ctx context.Context) (driving.IndexStatus, error) {
	docs, err := s.manifest.List(ctx)
	if err != nil {
		return driving.IndexStatus{}, fmt.Errorf("list manifest: %w", err)
	}

	status := driving.IndexStatus{Documents: docs}
	for _, doc := range docs {
		status.TotalChunks += doc.ChunkCount()
	}

	info, err := s.store.GetCollection(ctx, s.settings.Collection)
	switch {
	case err == nil:
		status.Collection = info
		status.CollectionExists = true
	case errors.Is(err, domain.ErrNotFound):
		// Collection not created yet; manifest side still reported
	default:
		return driving.IndexStatus{}, fmt.Errorf("get collection: %w", err)
	}

	return status, nil
}

// diffIDs returns the ids present in prev but absent from current.
func diffIDs(prev, current []string) []string {
	keep := make(map[string]struct{}, len(current))
	for _, id := range current {
		keep[id] = struct{}{}
	}

	var stale []string
	for _, id := range prev {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}
