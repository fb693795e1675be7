package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stereosearch/stereo/internal/adapters/driving/tui/messages"
	"github.com/stereosearch/stereo/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			ID: "pt-1",
			Payload: domain.Payload{
				Path:     "docs/auth.md",
				Content:  "Tokens rotate hourly.",
				Metadata: map[string]string{domain.MetaModule: "docs"},
			},
			Score:      0.91,
			SearchType: domain.SearchTypeNLP,
			NLPScore:   0.91,
		},
		{
			ID: "pt-2",
			Payload: domain.Payload{
				Path:     "internal/auth/token.go",
				Content:  "func Rotate(ctx context.Context) error {",
				Metadata: map[string]string{domain.MetaModule: "auth"},
			},
			Score:      0.88,
			SearchType: domain.SearchTypeNLP,
			NLPScore:   0.88,
			CodeScore:  0.74,
		},
		{
			ID: "pt-3",
			Payload: domain.Payload{
				Path:    "internal/session/store.go",
				Content: "type Store struct {",
			},
			Score:      0.70,
			SearchType: domain.SearchTypeCode,
			CodeScore:  0.70,
		},
	}
}

func portsWithResults(results []domain.SearchResult) *Ports {
	return &Ports{Search: &MockSearcher{
		SearchFunc: func(context.Context, string, domain.SearchOptions) ([]domain.SearchResult, error) {
			return results, nil
		},
	}}
}

// typeString feeds a string into the app one keystroke at a time.
func typeString(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// completeSearch types a query, presses enter and delivers the completion,
// leaving the app in results mode.
func completeSearch(t *testing.T, app *App, query string) {
	t.Helper()

	typeString(app, query)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	require.Equal(t, query, completed.Query)

	app.Update(completed)
}

func TestNewApp(t *testing.T) {
	ports := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.True(t, app.InputFocused())
	assert.False(t, app.Ready())
	assert.Equal(t, "", app.Query())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingSearcher)
}

func TestApp_WithContext(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	returned := app.WithContext(ctx)

	assert.Equal(t, app, returned)
}

func TestApp_Init(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	cmd := app.Init()

	assert.NotNil(t, cmd)
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_TypingUpdatesQuery(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	typeString(app, "auth")

	assert.Equal(t, "auth", app.Query())
}

func TestApp_Update_TypingSchedulesSearch(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	_, cmd := app.Update(msg)

	// The edit arms the debounce timer.
	assert.NotNil(t, cmd)
}

func TestApp_Update_SearchTick_RunsSearch(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	typeString(app, "auth")

	_, cmd := app.Update(searchTick{generation: app.generation})
	require.NotNil(t, cmd)

	completed, ok := cmd().(messages.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, "auth", completed.Query)
	assert.Len(t, completed.Results, 3)

	app.Update(completed)
	assert.Len(t, app.Results(), 3)
}

func TestApp_Update_SearchTick_StaleGenerationIgnored(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	typeString(app, "auth")
	stale := app.generation
	typeString(app, "x")

	_, cmd := app.Update(searchTick{generation: stale})

	assert.Nil(t, cmd)
}

func TestApp_Update_SearchTick_EmptyQueryIgnored(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	_, cmd := app.Update(searchTick{generation: app.generation})

	assert.Nil(t, cmd)
}

func TestApp_Update_Enter_SearchesImmediately(t *testing.T) {
	var gotQuery string
	ports := &Ports{Search: &MockSearcher{
		SearchFunc: func(_ context.Context, query string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
			gotQuery = query
			return sampleResults(), nil
		},
	}}
	app, err := NewApp(ports)
	require.NoError(t, err)
	typeString(app, "token rotation")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	cmd()
	assert.Equal(t, "token rotation", gotQuery)
	// Enter hands focus to the results list.
	assert.False(t, app.InputFocused())
}

func TestApp_Update_Enter_EmptyQueryDoesNothing(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, app.InputFocused())
}

func TestApp_Update_SearchCompleted(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	typeString(app, "auth")

	app.Update(messages.SearchCompleted{Query: "auth", Results: sampleResults()})

	assert.Len(t, app.Results(), 3)
	assert.NoError(t, app.Err())
}

func TestApp_Update_SearchCompleted_StaleQueryDropped(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	typeString(app, "fresh query")

	app.Update(messages.SearchCompleted{Query: "stale", Results: sampleResults()})

	assert.Empty(t, app.Results())
}

func TestApp_Update_SearchCompleted_Error(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	typeString(app, "auth")

	searchErr := errors.New("qdrant unreachable")
	app.Update(messages.SearchCompleted{Query: "auth", Err: searchErr})

	assert.ErrorIs(t, app.Err(), searchErr)
	assert.Empty(t, app.Results())
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_Tab_TogglesFocus(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	assert.True(t, app.InputFocused())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, app.InputFocused())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, app.InputFocused())
}

func TestApp_Update_Esc_ClearsQuery(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, "", app.Query())
	assert.Empty(t, app.Results())
	assert.True(t, app.InputFocused())
}

func TestApp_Update_Esc_QuitsOnEmptyQuery(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_Esc_ClosesHelp(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	require.True(t, app.ShowingHelp())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, app.ShowingHelp())
	// The query survives closing the help view.
	assert.Equal(t, "auth", app.Query())
}

func TestApp_Update_ResultsNavigation(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.SelectedIndex())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, app.SelectedIndex())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, app.SelectedIndex())

	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, app.SelectedIndex())
}

func TestApp_Update_ArrowsNavigateWhileTyping(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, app.InputFocused())

	app.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 1, app.SelectedIndex())
}

func TestApp_Update_QKey_QuitsInResultsMode(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_QKey_TypesInInputMode(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.Equal(t, "q", app.Query())
}

func TestApp_Update_HelpToggle(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")
	assert.False(t, app.ShowingHelp())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.True(t, app.ShowingHelp())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.False(t, app.ShowingHelp())
}

func TestApp_SelectedResult(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	completeSearch(t, app, "auth")
	app.Update(tea.KeyMsg{Type: tea.KeyDown})

	result := app.SelectedResult()

	require.NotNil(t, result)
	assert.Equal(t, "pt-2", result.ID)
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	view := app.View()

	assert.Contains(t, view, "Initialising")
}

func TestApp_View(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	view := app.View()

	assert.Contains(t, view, "Stereo")
	assert.Contains(t, view, "Query:")
	assert.Contains(t, view, "No results")
}

func TestApp_View_WithResults(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	completeSearch(t, app, "auth")

	view := app.View()

	assert.Contains(t, view, "docs/auth.md")
	assert.Contains(t, view, "3 results")
}

func TestApp_View_Help(t *testing.T) {
	app, err := NewApp(portsWithResults(sampleResults()))
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	completeSearch(t, app, "auth")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "close help")
}

func TestApp_View_Error(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	typeString(app, "auth")
	app.Update(messages.SearchCompleted{Query: "auth", Err: errors.New("qdrant unreachable")})

	view := app.View()

	assert.Contains(t, view, "Error: qdrant unreachable")
}

func TestApp_SetDimensions(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	app.SetDimensions(120, 40)

	assert.True(t, app.Ready())
}
