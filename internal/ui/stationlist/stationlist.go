// Package stationlist is the scrollable station table of the client.
package stationlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/cursor"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Action represents what happened during Update.
type Action int

const (
	ActionNone           Action = iota
	ActionPlay                  // Enter on a station
	ActionToggleFavorite        // f on a station
)

// Result tells the parent what happened.
type Result struct {
	Action  Action
	Station catalog.Station
}

// Marks carries the per-row decorations owned by other components.
type Marks struct {
	IsFavorite func(id string) bool
	CurrentID  string
}

// Model is a station list with a title and a status line.
type Model struct {
	ui.Base
	title    string
	items    []catalog.Station
	cursor   cursor.Cursor
	loading  bool
	errMsg   string
	emptyMsg string
}

// New creates an empty list.
func New(title string) Model {
	return Model{
		title:    title,
		cursor:   cursor.New(ui.ScrollMargin),
		emptyMsg: "No stations",
	}
}

// SetTitle changes the panel title.
func (m *Model) SetTitle(title string) { m.title = title }

// SetEmptyMessage sets the text shown for an empty list.
func (m *Model) SetEmptyMessage(msg string) { m.emptyMsg = msg }

// SetLoading marks the list as waiting for data.
func (m *Model) SetLoading() {
	m.loading = true
	m.errMsg = ""
}

// Loading reports whether the list waits for data.
func (m Model) Loading() bool { return m.loading }

// SetError shows msg instead of the stations.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
}

// SetItems replaces the stations and keeps the cursor in bounds.
func (m *Model) SetItems(items []catalog.Station) {
	m.loading = false
	m.errMsg = ""
	m.items = items
	m.cursor.ClampTo(len(items))
	m.cursor.EnsureVisible(len(items), m.Rows())
}

// Items returns the stations.
func (m Model) Items() []catalog.Station { return m.items }

// Len returns the number of stations.
func (m Model) Len() int { return len(m.items) }

// Selected returns the station under the cursor.
func (m Model) Selected() (catalog.Station, bool) {
	if m.cursor.Pos() >= len(m.items) {
		return catalog.Station{}, false
	}
	return m.items[m.cursor.Pos()], true
}

// SelectedIndex returns the cursor position.
func (m Model) SelectedIndex() int { return m.cursor.Pos() }

// Update handles navigation keys and returns the action for the parent.
func (m *Model) Update(msg tea.Msg) Result {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return Result{}
	}
	if m.cursor.HandleKey(key.String(), len(m.items), m.Rows()) {
		return Result{}
	}

	st, ok := m.Selected()
	if !ok {
		return Result{}
	}
	switch key.String() {
	case "enter":
		return Result{Action: ActionPlay, Station: st}
	case "f":
		return Result{Action: ActionToggleFavorite, Station: st}
	}
	return Result{}
}

// Column widths.
const (
	markWidth    = 2
	countryWidth = 14
	votesWidth   = 8
	clicksWidth  = 8
	minNameWidth = 12
)

// View renders the panel.
func (m Model) View(marks Marks) string {
	width, height := m.Size()
	if width <= 2 || height <= ui.BorderHeight {
		return ""
	}
	st := styles.T().S()
	inner := width - 2

	var b strings.Builder
	count := ""
	if len(m.items) > 0 {
		count = st.Muted.Render(fmt.Sprintf("%d stations", len(m.items)))
	}
	b.WriteString(render.Row(st.Title.Render(render.Truncate(m.title, inner/2)), count, inner))
	b.WriteString("\n")
	b.WriteString(st.Subtle.Render(render.Separator(inner)))

	rows := m.Rows()
	lines := m.bodyLines(marks, inner, rows)
	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	for range rows - len(lines) {
		b.WriteString("\n")
	}

	panel := st.Panel
	if m.IsFocused() {
		panel = st.Focused
	}
	return panel.Width(inner).Height(height - ui.BorderHeight).Render(b.String())
}

func (m Model) bodyLines(marks Marks, width, rows int) []string {
	st := styles.T().S()
	switch {
	case m.loading:
		return []string{st.Warning.Render("Loading stations…")}
	case m.errMsg != "":
		return []string{st.Error.Render(render.Truncate(m.errMsg, width))}
	case len(m.items) == 0:
		return []string{st.Muted.Render(m.emptyMsg)}
	}

	start, end := m.cursor.VisibleRange(len(m.items), rows)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.items[i], i == m.cursor.Pos(), marks, width))
	}
	return lines
}

func (m Model) renderRow(s catalog.Station, selected bool, marks Marks, width int) string {
	st := styles.T().S()

	fav := strings.Repeat(" ", markWidth)
	if marks.IsFavorite != nil && marks.IsFavorite(s.ID) {
		fav = st.Favorite.Render(render.Fit(icons.Favorite(), markWidth))
	}

	nameWidth := max(width-2*markWidth-countryWidth-votesWidth-clicksWidth, minNameWidth)
	name := render.Fit(icons.FormatStation(s.Name), nameWidth)
	country := render.Fit(s.CountryCode+" "+s.Country, countryWidth)
	votes := fmt.Sprintf("%*s", votesWidth, humanize.Comma(int64(s.Votes)))
	clicks := fmt.Sprintf("%*s", clicksWidth, formatClicks(s.ClickCount))

	nameStyle := st.Base
	marker := "  "
	if s.ID == marks.CurrentID && s.ID != "" {
		nameStyle = st.Current
		marker = st.Current.Render(render.Fit(icons.Playing(), markWidth))
	}
	if !s.IsOnline() {
		nameStyle = st.Subtle
	}

	line := fav + marker + nameStyle.Render(name) + st.Muted.Render(country+votes+clicks)
	line = render.TruncateStyled(line, width)
	if selected && m.IsFocused() {
		return st.Cursor.Width(width).Render(line)
	}
	return line
}

// formatClicks renders a click count compactly: 950, 12k, 1.2M.
func formatClicks(n int) string {
	if n < 1000 {
		return humanize.Comma(int64(n))
	}
	value, prefix := humanize.ComputeSI(float64(n))
	if value < 10 {
		return fmt.Sprintf("%.1f%s", value, strings.ToUpper(prefix))
	}
	return fmt.Sprintf("%.0f%s", value, strings.ToUpper(prefix))
}
