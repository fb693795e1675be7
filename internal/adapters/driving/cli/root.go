package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/logger"
)

// NewRootCmd builds the stereo command tree on top of the given App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "stereo",
		Short: "Dual-vector search across code and documentation",
		Long: `Stereo indexes text into two embedding spaces at once: a natural
language space tuned for prose and a code space tuned for source. Every
search runs in both spaces and the rankings are fused, so a query matches
a function body and its documentation with one call.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetVerbose(verbose)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		newIndexCmd(app),
		newSearchCmd(app),
		newDeleteCmd(app),
		newDropCollectionCmd(app),
		newStatusCmd(app),
		newWatchCmd(app),
		newConfigCmd(app),
		newMCPCmd(app),
		newTUICmd(app),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute wires the real App and runs the root command. The context carries
// signal cancellation from main.
func Execute(ctx context.Context) error {
	app := NewApp()
	defer func() { _ = app.Close() }()

	return NewRootCmd(app).ExecuteContext(ctx)
}
