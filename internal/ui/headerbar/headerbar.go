// Package headerbar renders the logo and view tabs at the top of the screen.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// View identifies a top-level station view.
type View int

const (
	ViewTop View = iota
	ViewFavorites
	ViewSearch
	ViewGenres
	ViewCountries

	// NumViews is the number of views.
	NumViews = int(ViewCountries) + 1
)

// Views lists the tabs in display order.
var Views = []View{ViewTop, ViewFavorites, ViewSearch, ViewGenres, ViewCountries}

func (v View) String() string {
	switch v {
	case ViewTop:
		return "Top"
	case ViewFavorites:
		return "Favorites"
	case ViewSearch:
		return "Search"
	case ViewGenres:
		return "Genres"
	case ViewCountries:
		return "Countries"
	}
	return "?"
}

// Key returns the function key that selects the view.
func (v View) Key() string {
	switch v {
	case ViewTop:
		return "F1"
	case ViewFavorites:
		return "F2"
	case ViewSearch:
		return "F3"
	case ViewGenres:
		return "F4"
	case ViewCountries:
		return "F5"
	}
	return ""
}

// Browsable reports whether v lists categories before stations.
func (v View) Browsable() bool {
	return v == ViewGenres || v == ViewCountries
}

// Next returns the view after v, wrapping around.
func (v View) Next() View {
	return Views[(int(v)+1)%len(Views)]
}

// Render returns the header line: logo on the left, tabs on the right.
func Render(current View, width int) string {
	if width < 20 {
		return ""
	}
	st := styles.T().S()

	parts := make([]string, 0, len(Views))
	for _, v := range Views {
		keyStyle, nameStyle := st.Muted, st.Subtle
		if v == current {
			keyStyle, nameStyle = st.Title, st.Title
		}
		parts = append(parts, keyStyle.Render(v.Key())+" "+nameStyle.Render(v.String()))
	}
	tabs := strings.Join(parts, st.Subtle.Render(" │ "))

	logo := styles.Logo("airwaves")
	if lipgloss.Width(logo)+lipgloss.Width(tabs)+1 > width {
		return render.TruncateStyled(tabs, width)
	}
	return render.Row(logo, tabs, width)
}
