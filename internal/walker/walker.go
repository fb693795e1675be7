// Package walker enumerates indexable text files under a directory root.
// It applies the same skip rules everywhere a tree is read: hidden entries,
// ignored directories, binary files, and oversized files never reach the
// indexing pipeline.
package walker

import (
	"bufio"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultMaxFileSize is the largest file the walker will yield, in bytes.
const DefaultMaxFileSize = 1 << 20

// defaultIgnores are directories and files skipped in every tree, before
// any .gitignore patterns apply.
var defaultIgnores = []string{
	".git",
	"node_modules",
	"dist",
	"build",
	"vendor",
	"__pycache__",
	"coverage",
	".next",
	".cache",
	"target",
	".idea",
	".vscode",
	".DS_Store",
}

// mimeOverrides resolves extensions the platform MIME database reports
// inconsistently or not at all. Checked before mime.TypeByExtension so
// detection is deterministic across systems.
var mimeOverrides = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
}

// docExtensions classify files as prose rather than code.
var docExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".txt":      {},
	".rst":      {},
	".adoc":     {},
}

// Walker yields indexable files under a root directory.
type Walker struct {
	root    string
	maxSize int64
	ignore  gitignore.IgnoreParser
}

// Option configures the walker.
type Option func(*Walker)

// WithMaxFileSize overrides the size cap in bytes.
func WithMaxFileSize(size int64) Option {
	return func(w *Walker) {
		if size > 0 {
			w.maxSize = size
		}
	}
}

// New creates a walker rooted at root. The root must be an existing
// directory. Ignore patterns combine the built-in defaults with the root's
// .gitignore when present.
func New(root string, opts ...Option) (*Walker, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	patterns := append([]string{}, defaultIgnores...)
	patterns = append(patterns, readGitignore(filepath.Join(root, ".gitignore"))...)

	w := &Walker{
		root:    root,
		maxSize: DefaultMaxFileSize,
		ignore:  gitignore.CompileIgnoreLines(patterns...),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Walk calls fn for every indexable file under the root, depth first. The
// yielded path is the root joined with the file's relative path, so a
// relative root produces relative paths. Walking stops on the first fn
// error or when the context is cancelled.
func (w *Walker) Walk(ctx context.Context, fn func(path string) error) error {
	return filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if w.IgnoredDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.Wants(rel) {
			return nil
		}

		if info, err := d.Info(); err != nil || info.Size() > w.maxSize {
			return nil
		}

		return fn(filepath.Join(w.root, rel))
	})
}

// Wants reports whether a relative file path passes the skip rules, size
// aside. The check is name based, so it also applies to files that no
// longer exist.
func (w *Walker) Wants(rel string) bool {
	if isHidden(rel) || w.ignore.MatchesPath(rel) {
		return false
	}
	return IsIndexable(rel)
}

// IgnoredDir reports whether a relative directory path is excluded from
// walking and watching.
func (w *Walker) IgnoredDir(rel string) bool {
	return isHidden(rel) || w.ignore.MatchesPath(rel)
}

// MaxFileSize returns the size cap in bytes.
func (w *Walker) MaxFileSize() int64 {
	return w.maxSize
}

// IsIndexable reports whether a file name looks like indexable text, judged
// by its extension's MIME type.
func IsIndexable(name string) bool {
	switch mimeType := DetectMIMEType(name); {
	case strings.HasPrefix(mimeType, "text/"):
		return true
	case mimeType == "application/json",
		mimeType == "application/xml",
		mimeType == "application/javascript",
		mimeType == "application/toml",
		mimeType == "application/yaml":
		return true
	default:
		return false
	}
}

// DetectMIMEType resolves a file name to a MIME type. Files without an
// extension are assumed to be plain text; unknown extensions map to
// application/octet-stream. Charset parameters are stripped.
func DetectMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := mimeOverrides[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = mimeType[:i]
		}
		return mimeType
	}

	return "application/octet-stream"
}

// ChunkTypeFor classifies a file as "doc" or "code" for the chunkType
// payload attribute. Prose formats are doc; everything else indexable
// counts as code.
func ChunkTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := docExtensions[ext]; ok {
		return "doc"
	}
	return "code"
}

// isHidden reports whether any component of the path starts with a dot.
// The "." and ".." components do not count as hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// readGitignore reads pattern lines from a .gitignore file, dropping
// blanks and comments. A missing file yields no patterns.
func readGitignore(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close() //nolint:errcheck

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
