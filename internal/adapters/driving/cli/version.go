package cli

import (
	"github.com/spf13/cobra"
)

// Build metadata, stamped at release time via
// -ldflags "-X github.com/stereosearch/stereo/internal/adapters/driving/cli.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("stereo version %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
