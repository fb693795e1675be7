package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// For collections it is recoverable: callers convert it into a
	// lazy-creation branch rather than treating it as fatal.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Duplicate collection creation surfaces this and is non-fatal.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured or cannot be reached. Both write and query paths need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured. Nothing can be indexed or searched without it.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch indicates the embedding output length does not
	// match the declared collection schema. Detected at collection
	// creation time, never silently truncated or padded.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
