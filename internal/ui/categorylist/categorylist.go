// Package categorylist is the scrollable list of genres or countries the
// client drills into.
package categorylist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/cursor"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Item is one category with the number of stations it holds.
type Item struct {
	Name  string
	Count int
}

// Model is a category list with a title.
type Model struct {
	ui.Base
	title   string
	noun    string
	items   []Item
	cursor  cursor.Cursor
	loaded  bool
	loading bool
	errMsg  string
}

// New creates an empty list. noun names one item in the header count,
// e.g. "genre".
func New(title, noun string) Model {
	return Model{title: title, noun: noun, cursor: cursor.New(ui.ScrollMargin)}
}

// SetLoading marks the list as waiting for data.
func (m *Model) SetLoading() {
	m.loading = true
	m.errMsg = ""
}

// Loading reports whether the list waits for data.
func (m Model) Loading() bool { return m.loading }

// Loaded reports whether items were received at least once.
func (m Model) Loaded() bool { return m.loaded }

// SetError shows msg instead of the items.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
}

// SetItems replaces the items. Entries without a name are dropped.
func (m *Model) SetItems(items []Item) {
	m.loading = false
	m.loaded = true
	m.errMsg = ""
	m.items = make([]Item, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) != "" {
			m.items = append(m.items, it)
		}
	}
	m.cursor.ClampTo(len(m.items))
	m.cursor.EnsureVisible(len(m.items), m.Rows())
}

// Items returns the categories.
func (m Model) Items() []Item { return m.items }

// Selected returns the category under the cursor.
func (m Model) Selected() (Item, bool) {
	if m.cursor.Pos() >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor.Pos()], true
}

// Update handles navigation. It returns the selected item and true when
// enter was pressed on one.
func (m *Model) Update(msg tea.Msg) (Item, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return Item{}, false
	}
	if m.cursor.HandleKey(key.String(), len(m.items), m.Rows()) {
		return Item{}, false
	}
	if key.String() != "enter" {
		return Item{}, false
	}
	return m.Selected()
}

const countWidth = 16

// View renders the panel.
func (m Model) View() string {
	width, height := m.Size()
	if width <= 2 || height <= ui.BorderHeight {
		return ""
	}
	st := styles.T().S()
	inner := width - 2

	var b strings.Builder
	count := ""
	if len(m.items) > 0 {
		count = st.Muted.Render(humanize.Comma(int64(len(m.items))) + " " + plural(m.noun, len(m.items)))
	}
	b.WriteString(render.Row(st.Title.Render(render.Truncate(m.title, inner/2)), count, inner))
	b.WriteString("\n")
	b.WriteString(st.Subtle.Render(render.Separator(inner)))

	rows := m.Rows()
	lines := m.bodyLines(inner, rows)
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

func (m Model) bodyLines(width, rows int) []string {
	st := styles.T().S()
	switch {
	case m.loading:
		return []string{st.Warning.Render("Loading " + plural(m.noun, 2) + "…")}
	case m.errMsg != "":
		return []string{st.Error.Render(render.Truncate(m.errMsg, width))}
	case len(m.items) == 0:
		return []string{st.Muted.Render("Nothing to browse")}
	}

	start, end := m.cursor.VisibleRange(len(m.items), rows)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		it := m.items[i]
		name := render.Fit(" "+it.Name, max(width-countWidth, 1))
		stations := fmt.Sprintf("%*s", countWidth, humanize.Comma(int64(it.Count))+" stations ")
		line := render.TruncateStyled(st.Base.Render(name)+st.Muted.Render(stations), width)
		if i == m.cursor.Pos() && m.IsFocused() {
			line = st.Cursor.Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func plural(noun string, n int) string {
	if n == 1 || noun == "" {
		return noun
	}
	if strings.HasSuffix(noun, "y") {
		return strings.TrimSuffix(noun, "y") + "ies"
	}
	return noun + "s"
}
