package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/core/domain"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Long:  `Shows the collection state and the locally tracked documents.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			indexer, err := app.Indexer()
			if err != nil {
				return err
			}

			status, err := indexer.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("status failed: %w", err)
			}

			settings, err := app.Settings()
			if err != nil {
				return err
			}

			cmd.Printf("Collection: %s\n", settings.Collection)
			if status.CollectionExists {
				cmd.Printf("  Points: %d\n", status.Collection.PointsCount)
				nlp := status.Collection.Vectors[domain.SpaceNLP]
				code := status.Collection.Vectors[domain.SpaceCode]
				cmd.Printf("  Spaces: nlp %dd, code %dd\n", nlp.Size, code.Size)
			} else {
				cmd.Println("  (not created yet)")
			}
			cmd.Println()

			if len(status.Documents) == 0 {
				cmd.Println("No documents indexed.")
				return nil
			}

			cmd.Printf("Documents (%d, %d chunks):\n", len(status.Documents), status.TotalChunks)
			for i := range status.Documents {
				doc := &status.Documents[i]
				cmd.Printf("  %s (%d chunks, indexed %s)\n",
					doc.Path, doc.ChunkCount(), doc.IndexedAt.Format("2006-01-02 15:04:05"))
			}

			return nil
		},
	}
}
