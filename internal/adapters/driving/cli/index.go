package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driving"
	"github.com/stereosearch/stereo/internal/logger"
	"github.com/stereosearch/stereo/internal/walker"
)

func newIndexCmd(app *App) *cobra.Command {
	var (
		module    string
		chunkType string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "index [path...]",
		Short: "Index files or directory trees",
		Long: `Indexes the given files and directories into the vector store.

Directories are walked recursively. Hidden entries, common dependency and
build directories, binary files, and oversized files are skipped, and a
.gitignore at the directory root is honoured. Unchanged documents are
detected by content hash and skipped unless --force is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexer, err := app.Indexer()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := indexer.EnsureCollection(ctx); err != nil {
				return fmt.Errorf("ensure collection: %w", err)
			}

			var totals indexTotals
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("stat %s: %w", arg, err)
				}

				if info.IsDir() {
					if err := indexTree(ctx, cmd, indexer, arg, module, chunkType, force, &totals); err != nil {
						return err
					}
					continue
				}

				// Explicit file arguments bypass the walk filters.
				meta := indexMeta(arg, "", module, chunkType)
				if err := indexFile(ctx, cmd, indexer, arg, meta, force, &totals); err != nil {
					return err
				}
			}

			cmd.Printf("Indexed %d documents (%d chunks, %d unchanged).\n",
				totals.indexed, totals.chunks, totals.skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "module metadata for all indexed files (default: derived from path)")
	cmd.Flags().StringVar(&chunkType, "type", "", "chunk type metadata, code or doc (default: derived from extension)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-embed even when content is unchanged")

	return cmd
}

// indexTotals accumulates counters across all indexed paths.
type indexTotals struct {
	indexed int
	skipped int
	chunks  int
}

func indexTree(
	ctx context.Context,
	cmd *cobra.Command,
	indexer driving.Indexer,
	root, module, chunkType string,
	force bool,
	totals *indexTotals,
) error {
	walk, err := walker.New(root)
	if err != nil {
		return err
	}

	return walk.Walk(ctx, func(path string) error {
		meta := indexMeta(path, root, module, chunkType)
		return indexFile(ctx, cmd, indexer, path, meta, force, totals)
	})
}

func indexFile(
	ctx context.Context,
	cmd *cobra.Command,
	indexer driving.Indexer,
	path string,
	meta map[string]string,
	force bool,
	totals *indexTotals,
) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	receipt, err := indexer.Upsert(ctx, path, string(content), domain.UpsertOptions{
		Metadata: meta,
		Force:    force,
	})
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}

	if receipt.Skipped {
		totals.skipped++
		logger.Debug("Unchanged: %s", path)
		return nil
	}

	totals.indexed++
	totals.chunks += receipt.ChunkCount()
	cmd.Printf("  %s (%d chunks)\n", path, receipt.ChunkCount())
	return nil
}

// indexMeta builds the metadata attributes for one file. Explicit --module
// and --type flags win over derivation.
func indexMeta(path, root, module, chunkType string) map[string]string {
	if module == "" {
		module = moduleFor(root, path)
	}
	if chunkType == "" {
		chunkType = walker.ChunkTypeFor(path)
	}
	return map[string]string{
		domain.MetaModule:    module,
		domain.MetaChunkType: chunkType,
	}
}

// moduleFor derives the module attribute from the first directory under
// the indexed root. Files directly under the root, and single files named
// on the command line, fall into the default module group.
func moduleFor(root, path string) string {
	if root == "" {
		return domain.DefaultModule
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return domain.DefaultModule
	}
	rel = filepath.ToSlash(rel)
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	return domain.DefaultModule
}
