// Package playerbar renders the bottom bar showing the playback session.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Height is the bar height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the bar.
type State struct {
	Session  playback.Session
	Favorite bool
}

// Visible reports whether the bar has something to show.
func (s State) Visible() bool {
	return s.Session.Station != nil
}

// Render returns the bar for the given width, or "" when nothing was
// played yet.
func Render(s State, width int) string {
	if !s.Visible() || width < 10 {
		return ""
	}
	st := styles.T().S()
	inner := max(width-6, 0)

	status := statusIcon(s.Session.Status)
	right := RenderVolume(s.Session.Volume, s.Session.Muted)

	name := render.Sanitize(s.Session.Station.Name)
	if s.Favorite {
		name = st.Favorite.Render(icons.Favorite()) + " " + st.Current.Render(name)
	} else {
		name = st.Current.Render(name)
	}

	detail := st.Muted.Render(stationDetail(s))
	if line := statusLine(s.Session); line != "" {
		detail = line
	}

	left := status + "  " + name
	if detail != "" {
		left += "   " + detail
	}
	left = render.TruncateStyled(left, max(inner-lipgloss.Width(right)-2, 1))

	return st.Panel.Padding(0, 2).Width(width - 2).Render(render.Row(left, right, inner))
}

// RenderVolume renders the volume indicator, e.g. "vol  80%".
func RenderVolume(volume float64, muted bool) string {
	icon := icons.Volume()
	if muted {
		icon = icons.VolumeMute()
	}
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d%%", icon, int(volume*100+0.5)))
}

func statusIcon(status playback.Status) string {
	st := styles.T().S()
	switch status {
	case playback.StatusPlaying:
		return st.Success.Render(icons.Playing())
	case playback.StatusPaused:
		return st.Muted.Render(icons.Paused())
	case playback.StatusLoading:
		return st.Warning.Render(icons.Loading())
	case playback.StatusError:
		return st.Error.Render(icons.Error())
	default:
		return st.Subtle.Render(icons.Stopped())
	}
}

// statusLine returns the transient or terminal message of the session.
func statusLine(s playback.Session) string {
	st := styles.T().S()
	switch {
	case s.Status == playback.StatusError && s.Err != "":
		return st.Error.Render(s.Err)
	case s.Status == playback.StatusLoading && s.Message != "":
		return st.Warning.Render(s.Message)
	case s.Status == playback.StatusLoading:
		return st.Warning.Render("Connecting…")
	}
	return ""
}

// stationDetail returns "Country · CODEC 128k".
func stationDetail(s State) string {
	station := s.Session.Station
	var parts []string
	if station.Country != "" {
		parts = append(parts, render.Sanitize(station.Country))
	}
	var format string
	if station.Codec != "" {
		format = station.Codec
	}
	if station.Bitrate > 0 {
		format = strings.TrimSpace(fmt.Sprintf("%s %dk", format, station.Bitrate))
	}
	if format != "" {
		parts = append(parts, format)
	}
	return strings.Join(parts, " · ")
}
