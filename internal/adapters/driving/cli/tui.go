package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stereosearch/stereo/internal/adapters/driving/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive terminal UI",
		Long: `Launch the interactive terminal user interface for Stereo.

Type to refine the query; results update as you type.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Search now
  Tab      - Toggle focus between input and results
  Esc      - Clear query / quit
  ?        - Toggle help
  q        - Quit (when the results list is focused)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Panic recovery so a rendering bug leaves a stack trace, not
			// a corrupted terminal.
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
					fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
				}
			}()

			searcher, err := app.Searcher()
			if err != nil {
				return err
			}

			tuiApp, err := tui.NewApp(&tui.Ports{Search: searcher})
			if err != nil {
				return fmt.Errorf("failed to create TUI: %w", err)
			}
			tuiApp.WithContext(cmd.Context())

			p := tea.NewProgram(tuiApp, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}

			return nil
		},
	}
}
