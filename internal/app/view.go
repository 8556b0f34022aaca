package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/playerbar"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/stationlist"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

const (
	searchHeight = 1
	statusHeight = 1
)

// resize distributes the terminal height between the bars and the list.
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	m.help.Width = m.width
	m.search.Width = max(m.width-4, 1)

	used := headerbar.Height + statusHeight + lipgloss.Height(m.help.View(m.keys))
	if m.view == headerbar.ViewSearch {
		used += searchHeight
	}
	if m.playerState().Visible() {
		used += playerbar.Height
	}
	listHeight := max(m.height-used, 0)
	for i := range m.lists {
		m.lists[i].SetSize(m.width, listHeight)
		m.cats[i].SetSize(m.width, listHeight)
	}
}

func (m Model) playerState() playerbar.State {
	s := playerbar.State{Session: m.session}
	if m.session.Station != nil {
		s.Favorite = m.favSet[m.session.Station.ID]
	}
	return s
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	parts := []string{headerbar.Render(m.view, m.width)}
	if m.view == headerbar.ViewSearch {
		parts = append(parts, m.search.View())
	}

	marks := stationlist.Marks{IsFavorite: m.IsFavorite}
	if m.session.Station != nil && m.session.Status.IsActive() {
		marks.CurrentID = m.session.Station.ID
	}
	if m.view.Browsable() && !m.drilled[m.view] {
		parts = append(parts, m.cats[m.view].View())
	} else {
		parts = append(parts, m.lists[m.view].View(marks))
	}

	if bar := playerbar.Render(m.playerState(), m.width); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.statusLine(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusLine() string {
	st := styles.T().S()
	line := ""
	if m.busy() {
		line = m.spinner.View() + " "
	}
	if m.notice != "" {
		line += st.Error.Render(m.notice)
	}
	return render.TruncateStyled(line, m.width)
}
