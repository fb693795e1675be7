package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/stereosearch/stereo/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// Store is a SQLite-backed implementation of driven.ManifestStore.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.ManifestStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.stereo/data/manifest.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".stereo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "manifest.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys so chunk rows follow their document
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Put inserts or replaces the manifest record for a path. The chunk id list
// is rewritten in full so stale rows from a previous index never survive.
func (s *Store) Put(ctx context.Context, doc domain.IndexedDocument) error {
	if doc.Path == "" {
		return fmt.Errorf("manifest: %w: path is required", domain.ErrInvalidInput)
	}
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (path, content_hash, indexed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			indexed_at = excluded.indexed_at
	`, doc.Path, doc.ContentHash, doc.IndexedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_chunks WHERE document_path = ?", doc.Path); err != nil {
		return fmt.Errorf("clearing chunk ids: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (document_path, chunk_id, position)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunkID := range doc.ChunkIDs {
		if _, err := stmt.ExecContext(ctx, doc.Path, chunkID, i); err != nil {
			return fmt.Errorf("saving chunk id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves the manifest record for a path.
func (s *Store) Get(ctx context.Context, path string) (domain.IndexedDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, content_hash, indexed_at
		FROM documents WHERE path = ?
	`, path)

	var doc domain.IndexedDocument
	if err := row.Scan(&doc.Path, &doc.ContentHash, &doc.IndexedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.IndexedDocument{}, domain.ErrNotFound
		}
		return domain.IndexedDocument{}, fmt.Errorf("scanning document: %w", err)
	}

	chunkIDs, err := s.chunkIDs(ctx, path)
	if err != nil {
		return domain.IndexedDocument{}, err
	}
	doc.ChunkIDs = chunkIDs

	return doc, nil
}

// List returns all manifest records ordered by path.
func (s *Store) List(ctx context.Context) ([]domain.IndexedDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, content_hash, indexed_at
		FROM documents ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.IndexedDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.IndexedDocument
		if err := rows.Scan(&doc.Path, &doc.ContentHash, &doc.IndexedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for i := range docs {
		chunkIDs, err := s.chunkIDs(ctx, docs[i].Path)
		if err != nil {
			return nil, err
		}
		docs[i].ChunkIDs = chunkIDs
	}

	return docs, nil
}

// Delete removes the manifest record for a path. Chunk id rows cascade.
func (s *Store) Delete(ctx context.Context, path string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Clear removes every manifest record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	return nil
}

// chunkIDs loads the ordered point ids recorded for a path.
func (s *Store) chunkIDs(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id FROM document_chunks
		WHERE document_path = ?
		ORDER BY position
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying chunk ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk ids: %w", err)
	}

	return ids, nil
}
