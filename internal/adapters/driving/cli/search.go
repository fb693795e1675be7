package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/core/domain"
)

func newSearchCmd(app *App) *cobra.Command {
	var (
		limit     int
		chunkType string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search indexed documents",
		Long: `Searches the index in both embedding spaces and fuses the rankings.
Results found by both spaces rank first; the rest follow by score, spread
across modules so one package cannot crowd out the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, err := app.Searcher()
			if err != nil {
				return err
			}

			results, err := searcher.Search(cmd.Context(), args[0], domain.SearchOptions{
				Limit:     limit,
				ChunkType: chunkType,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if asJSON {
				return outputSearchJSON(cmd, results)
			}
			return outputSearchTable(cmd, results)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	cmd.Flags().StringVar(&chunkType, "type", "", "restrict results to a chunk type, code or doc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")

	return cmd
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]

		cmd.Printf("  [%d] %s (%s)\n", i+1, r.Payload.Path, formatScore(r))
		cmd.Printf("      Module: %s", r.Payload.Module())
		if ct := r.Payload.ChunkType(); ct != "" {
			cmd.Printf(", type: %s", ct)
		}
		cmd.Println()
		if snippet := snippetOf(r.Payload.Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// formatScore renders the ranking score with its provenance: found by both
// spaces, or by one of them.
func formatScore(r *domain.SearchResult) string {
	if r.InBothSpaces() {
		return fmt.Sprintf("both %.2f", r.RankScore())
	}
	return fmt.Sprintf("%s %.2f", r.SearchType, r.RankScore())
}

// snippetOf returns the first non-blank line of the chunk, truncated to
// table width.
func snippetOf(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 80 {
			line = line[:77] + "..."
		}
		return line
	}
	return ""
}
