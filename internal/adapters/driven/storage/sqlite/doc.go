// Package sqlite provides the SQLite-backed manifest store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The manifest records which
// paths have been indexed and which point ids each path occupies, so deletes
// can address the exact id set and unchanged documents can be skipped on
// re-index.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.stereo/data/manifest.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
