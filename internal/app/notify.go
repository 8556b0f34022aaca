package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
)

// notifyPlayback shows a desktop notification when a station starts
// playing after loading or ends in an error. Each one replaces the last.
func (m Model) notifyPlayback(c playback.Change) tea.Cmd {
	if m.notifier == nil || c.Station == nil {
		return nil
	}

	var n notify.Notification
	switch {
	case c.Current == playback.StatusPlaying && c.Previous == playback.StatusLoading:
		n = notify.NowPlaying(*c.Station)
	case c.Current == playback.StatusError:
		n = notify.PlaybackFailed(*c.Station, c.Err)
	default:
		return nil
	}
	n.ReplacesID = m.notifiedID
	n.Timeout = m.notifyTimeout

	notifier, log := m.notifier, m.log
	return func() tea.Msg {
		id, err := notifier.Notify(n)
		if err != nil {
			log.Debug().Err(err).Msg("desktop notification failed")
			return nil
		}
		return notifiedMsg{ID: id}
	}
}
