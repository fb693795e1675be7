package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/adapters/driving/mcp"
)

func newMCPCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
	}

	cmd.AddCommand(newMCPServeCmd(app))
	return cmd
}

func newMCPServeCmd(app *App) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --http to serve the streamable HTTP transport instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  stereo mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  stereo mcp serve --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "stereo": {
        "command": "/path/to/stereo",
        "args": ["mcp", "serve"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			searcher, err := app.Searcher()
			if err != nil {
				return err
			}
			indexer, err := app.Indexer()
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Ports{
				Search: searcher,
				Index:  indexer,
			})
			if err != nil {
				return err
			}

			if httpAddr != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", httpAddr)
				return server.RunHTTP(cmd.Context(), httpAddr)
			}

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio (e.g. :8080)")

	return cmd
}
