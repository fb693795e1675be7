package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stereosearch/stereo/internal/adapters/driving/tui/components/input"
	"github.com/stereosearch/stereo/internal/adapters/driving/tui/components/list"
	"github.com/stereosearch/stereo/internal/adapters/driving/tui/components/status"
	"github.com/stereosearch/stereo/internal/adapters/driving/tui/keymap"
	"github.com/stereosearch/stereo/internal/adapters/driving/tui/messages"
	"github.com/stereosearch/stereo/internal/adapters/driving/tui/styles"
	"github.com/stereosearch/stereo/internal/core/domain"
)

// SearchDebounce is how long typing must pause before a search fires.
const SearchDebounce = 250 * time.Millisecond

// searchTick is the debounce timer message. The generation guards against
// ticks armed by earlier keystrokes.
type searchTick struct {
	generation int
}

// App is the main TUI model following the Elm architecture. It is a single
// search view: the query input on top, the fused result list below it, and
// a status bar at the bottom. The query searches incrementally as it is
// typed, debounced by SearchDebounce.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context searches run under.
	ctx context.Context

	styles    *styles.Styles
	keys      *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	// generation counts query edits; only the debounce tick and the
	// completion of the latest edit are honoured.
	generation int

	// focusInput is true while keystrokes edit the query, false while
	// they navigate the results list.
	focusInput bool

	// showHelp replaces the results list with the keybinding help.
	showHelp bool

	// err holds the last search error.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keys:       km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		focusInput: true,
	}, nil
}

// WithContext sets the context searches run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("stereo"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchTick:
		// Only the tick armed by the latest edit fires a search.
		if msg.generation != a.generation {
			return a, nil
		}
		query := a.input.Value()
		if query == "" {
			return a, nil
		}
		a.statusbar.SetState(status.StateSearching)
		return a, a.performSearch(query)

	case messages.SearchCompleted:
		a.handleSearchCompleted(msg)
		return a, nil
	}

	// Forward remaining messages (cursor blinks and the like) to the input.
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKey routes keyboard input by focus mode, after the global bindings.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		return a.toggleFocus()
	}

	if msg.Type == tea.KeyEsc {
		return a.handleEsc()
	}

	if a.focusInput {
		return a.handleInputKey(msg)
	}
	return a.handleResultsKey(msg)
}

// toggleFocus moves focus between the query input and the results list.
func (a *App) toggleFocus() (tea.Model, tea.Cmd) {
	a.focusInput = !a.focusInput
	a.statusbar.SetInputMode(a.focusInput)
	if a.focusInput {
		return a, a.input.Focus()
	}
	a.input.Blur()
	return a, nil
}

// handleEsc closes the help view, clears a non-empty query, or quits.
func (a *App) handleEsc() (tea.Model, tea.Cmd) {
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if a.input.Value() != "" {
		a.reset()
		return a, nil
	}
	return a, tea.Quit
}

// handleInputKey routes keys while the query input is focused. Edits bump
// the generation and arm the debounce timer; arrow keys still move the
// results list so typing and browsing mix freely.
func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := a.input.Value()
		if query == "" {
			return a, nil
		}
		a.generation++ // cancel any pending debounce tick
		a.focusInput = false
		a.input.Blur()
		a.statusbar.SetInputMode(false)
		a.statusbar.SetState(status.StateSearching)
		return a, a.performSearch(query)
	case tea.KeyUp:
		a.list.MoveUp()
		return a, nil
	case tea.KeyDown:
		a.list.MoveDown()
		return a, nil
	default:
		// Handle other keys
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	after := a.input.Value()
	if after == before {
		return a, cmd
	}

	a.generation++
	if after == "" {
		a.clearResults()
		return a, cmd
	}
	return a, tea.Batch(cmd, a.scheduleSearch())
}

// handleResultsKey routes keys while the results list is focused.
func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		a.list.MoveUp()
		return a, nil
	case tea.KeyDown:
		a.list.MoveDown()
		return a, nil
	default:
		// Handle other keys
	}

	switch msg.String() {
	case "k":
		a.list.MoveUp()
	case "j":
		a.list.MoveDown()
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = !a.showHelp
	}
	return a, nil
}

// scheduleSearch arms the debounce timer for the current generation.
func (a *App) scheduleSearch() tea.Cmd {
	generation := a.generation
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return searchTick{generation: generation}
	})
}

// performSearch runs the query against the search port.
func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Search.Search(a.ctx, query, domain.SearchOptions{})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted folds finished searches into the model, dropping
// completions for queries the user has typed past.
func (a *App) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Query != a.input.Value() {
		return
	}
	if msg.Err != nil {
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return
	}
	a.err = nil
	a.list.SetResults(msg.Results)
	a.statusbar.SetState(status.StateResults)
	a.statusbar.SetMessage("")
	a.statusbar.SetResultCount(len(msg.Results))
}

// reset clears the query and results and returns focus to the input.
func (a *App) reset() {
	a.generation++
	a.input.SetValue("")
	a.focusInput = true
	a.input.Focus()
	a.clearResults()
}

// clearResults empties the list and the status bar.
func (a *App) clearResults() {
	a.list.SetResults(nil)
	a.err = nil
	a.statusbar.Clear()
	a.statusbar.SetInputMode(a.focusInput)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, a.styles.Title.Render("Stereo"), "")
	sections = append(sections, a.input.View(), "")

	if a.showHelp {
		sections = append(sections, a.viewHelp())
	} else {
		if a.err != nil {
			sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
		}
		sections = append(sections, a.list.View())
	}

	sections = append(sections, "", a.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewHelp renders the keybinding help in place of the results list.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString("Help\n\n")
	for _, row := range a.keys.FullHelp() {
		for _, binding := range row {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n[esc] close help")
	return a.styles.Help.Render(b.String())
}

// SetDimensions sets the terminal dimensions and resizes the components.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	a.list.SetDimensions(width, height-8)
	a.statusbar.SetWidth(width)
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.input.Value()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.list.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.list.Selected()
}

// SelectedResult returns the currently selected result, or nil if none.
func (a *App) SelectedResult() *domain.SearchResult {
	return a.list.SelectedResult()
}

// Err returns the last search error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// InputFocused returns whether keystrokes currently edit the query.
func (a *App) InputFocused() bool {
	return a.focusInput
}

// ShowingHelp returns whether the help view is open.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}
