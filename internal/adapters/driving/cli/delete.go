package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/core/domain"
)

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [path]",
		Short: "Remove a document from the index",
		Long: `Removes every chunk of the given document from the vector store and
forgets it in the local manifest. The path must match the one used when
the document was indexed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexer, err := app.Indexer()
			if err != nil {
				return err
			}

			if err := indexer.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%s is not indexed", args[0])
				}
				return fmt.Errorf("delete failed: %w", err)
			}

			cmd.Printf("Deleted %s from the index.\n", args[0])
			return nil
		},
	}
}

func newDropCollectionCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "drop-collection",
		Short: "Delete the whole collection",
		Long: `Deletes the vector store collection and clears the local manifest.
Every indexed document is removed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				cmd.Print("This deletes the whole collection. Continue? [y/N]: ")
				answer := readLine(bufio.NewReader(cmd.InOrStdin()))
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					cmd.Println("Aborted.")
					return nil
				}
			}

			indexer, err := app.Indexer()
			if err != nil {
				return err
			}

			if err := indexer.DropCollection(cmd.Context()); err != nil {
				return fmt.Errorf("drop collection failed: %w", err)
			}

			cmd.Println("Collection dropped.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
