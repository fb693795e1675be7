// Package list provides the result list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stereosearch/stereo/internal/adapters/driving/tui/styles"
	"github.com/stereosearch/stereo/internal/core/domain"
)

// ResultList displays fused search results in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		results:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*3+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	lines = append(lines, header, "")

	// Each result renders as three lines: path, module, preview.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single fused result with its scores and a preview.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	path := result.Payload.Path
	if path == "" {
		path = "(unknown)"
	}

	maxPathLen := r.width - 20
	if maxPathLen < 10 {
		maxPathLen = 10
	}
	if len(path) > maxPathLen {
		path = path[:maxPathLen-3] + "..."
	}

	score := scoreLabel(result)

	var pathLine string
	if index == r.selected {
		pathLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxPathLen, path, score))
	} else {
		pathLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxPathLen, path)) +
			r.styles.Muted.Render(score)
	}

	detail := result.Payload.Module()
	if ct, ok := result.Payload.Metadata[domain.MetaChunkType]; ok && ct != "" {
		detail += " · " + ct
	}
	detailLine := r.styles.Subtitle.Render("    " + detail)

	preview := previewOf(result.Payload.Content)
	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}
	previewLine := r.styles.Muted.Render("    " + preview)

	return pathLine + "\n" + detailLine + "\n" + previewLine
}

// scoreLabel renders the score with its originating space, or "both" when
// the result came back from both spaces.
func scoreLabel(result *domain.SearchResult) string {
	if result.InBothSpaces() {
		return fmt.Sprintf("both %.2f", result.RankScore())
	}
	return fmt.Sprintf("%s %.2f", result.SearchType, result.RankScore())
}

// previewOf returns the first non-blank line of content.
func previewOf(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// SetResults updates the result list.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
