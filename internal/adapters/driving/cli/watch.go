package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/walker"
	"github.com/stereosearch/stereo/internal/watcher"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and keep the index in sync",
		Long: `Indexes the directory, then watches it for changes. Modified files are
re-embedded and deleted files are removed from the index. Events are
debounced, so an editor save burst indexes once.

Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			indexer, err := app.Indexer()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := indexer.EnsureCollection(ctx); err != nil {
				return fmt.Errorf("ensure collection: %w", err)
			}

			walk, err := walker.New(root)
			if err != nil {
				return err
			}

			// Initial pass so the watch starts from a current index.
			var totals indexTotals
			err = walk.Walk(ctx, func(path string) error {
				meta := indexMeta(path, root, "", "")
				return indexFile(ctx, cmd, indexer, path, meta, false, &totals)
			})
			if err != nil {
				return err
			}
			cmd.Printf("Indexed %d documents (%d chunks, %d unchanged). Watching %s...\n",
				totals.indexed, totals.chunks, totals.skipped, root)

			w, err := watcher.New(root, walk)
			if err != nil {
				return err
			}

			w.OnChange(func(paths []string) {
				for _, path := range paths {
					content, err := os.ReadFile(path)
					if err != nil {
						cmd.PrintErrf("read %s: %v\n", path, err)
						continue
					}

					receipt, err := indexer.Upsert(ctx, path, string(content), domain.UpsertOptions{
						Metadata: indexMeta(path, root, "", ""),
					})
					if err != nil {
						cmd.PrintErrf("index %s: %v\n", path, err)
						continue
					}
					if !receipt.Skipped {
						cmd.Printf("Indexed %s (%d chunks)\n", path, receipt.ChunkCount())
					}
				}
			})

			w.OnRemove(func(paths []string) {
				for _, path := range paths {
					err := indexer.Delete(ctx, path)
					switch {
					case errors.Is(err, domain.ErrNotFound):
						// Was never indexed, nothing to remove
					case err != nil:
						cmd.PrintErrf("delete %s: %v\n", path, err)
					default:
						cmd.Printf("Removed %s\n", path)
					}
				}
			})

			if err := w.Start(); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer func() { _ = w.Stop() }()

			<-ctx.Done()
			cmd.Println("\nStopping watch.")
			return nil
		},
	}
}
