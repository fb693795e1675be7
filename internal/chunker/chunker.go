// Package chunker splits document content into fixed-size chunks with
// deterministic, content-derived identities.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	gopath "path"
	"strings"

	"github.com/google/uuid"

	"github.com/stereosearch/stereo/internal/core/domain"
)

// DefaultChunkSize is the default number of bytes per chunk window.
const DefaultChunkSize = domain.DefaultChunkSize

// Chunker cuts documents into contiguous, non-overlapping windows covering
// the whole content. The last window is shorter when the length is not a
// multiple of the window size.
type Chunker struct {
	chunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in bytes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Split cuts content into windows and assigns each its deterministic
// identity. Empty content yields no chunks. The metadata map is copied onto
// every chunk; when it carries no module, the module is derived from the
// path's leading segment so diversification always has a group to work with.
func (c *Chunker) Split(path, content string, metadata map[string]string) []domain.Chunk {
	if content == "" {
		// Empty content produces no chunks
		return nil
	}

	contentLen := len(content)
	chunks := make([]domain.Chunk, 0, contentLen/c.chunkSize+1)

	for start := 0; start < contentLen; start += c.chunkSize {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}

		slice := content[start:end]
		chunks = append(chunks, domain.Chunk{
			ID:          ChunkID(path, start),
			Path:        path,
			Content:     slice,
			ContentHash: HashContent(slice),
			Loc:         domain.Span{Start: start, End: end},
			Metadata:    chunkMetadata(path, metadata),
		})
	}

	return chunks
}

// ChunkID returns the deterministic point id for a (path, offset) pair: a
// SHA-1 based UUID of the string "{path}#chunk-{offset}". The same pair
// always yields the same id, which is what makes re-indexing idempotent,
// and the UUID form is a valid vector-store point id.
func ChunkID(path string, offset int) string {
	name := fmt.Sprintf("%s#chunk-%d", path, offset)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// HashContent returns the hex SHA-256 digest of content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ModuleForPath derives the default grouping module for a document: the
// first path segment, or domain.DefaultModule for a bare filename.
func ModuleForPath(path string) string {
	cleaned := strings.TrimPrefix(gopath.Clean(path), "/")
	if i := strings.IndexByte(cleaned, '/'); i > 0 {
		return cleaned[:i]
	}
	return domain.DefaultModule
}

func chunkMetadata(path string, metadata map[string]string) map[string]string {
	merged := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		merged[k] = v
	}
	if merged[domain.MetaModule] == "" {
		merged[domain.MetaModule] = ModuleForPath(path)
	}
	return merged
}
