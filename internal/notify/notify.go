// Package notify shows desktop notifications about stations through the
// freedesktop notification service.
package notify

import (
	"strings"

	"github.com/llehouerou/airwaves/internal/catalog"
)

// Urgency represents freedesktop notification priority levels.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification categories understood by common notification daemons.
const (
	CategoryMusic = "x-gnome.music"
	CategoryError = "transfer.error"
)

// Notification is one desktop notification about a station.
type Notification struct {
	Title      string
	Body       string
	Icon       string // themed icon name
	Timeout    int32  // ms; -1 server default, 0 never
	ReplacesID uint32 // replaces a shown notification when non-zero
	Urgency    Urgency
	Category   string
	// Transient notifications are not kept in the daemon's history.
	Transient bool
}

// Notifier shows desktop notifications.
type Notifier interface {
	// Notify shows n and returns its ID, 0 when nothing was shown.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// nopNotifier shows nothing.
type nopNotifier struct{}

// Nop returns a Notifier that shows nothing.
func Nop() Notifier { return nopNotifier{} }

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }

func (nopNotifier) Close(uint32) error { return nil }

const maxTags = 3

// NowPlaying describes a station that started playing.
func NowPlaying(st catalog.Station) Notification {
	var parts []string
	if st.Country != "" {
		parts = append(parts, st.Country)
	}
	if tags := st.Tags(); len(tags) > 0 {
		parts = append(parts, strings.Join(tags[:min(len(tags), maxTags)], ", "))
	}
	return Notification{
		Title:     st.Name,
		Body:      strings.Join(parts, " · "),
		Icon:      "audio-x-generic",
		Urgency:   UrgencyLow,
		Category:  CategoryMusic,
		Transient: true,
	}
}

// PlaybackFailed reports a station that could not be played.
func PlaybackFailed(st catalog.Station, reason string) Notification {
	return Notification{
		Title:    st.Name,
		Body:     reason,
		Icon:     "dialog-error",
		Urgency:  UrgencyNormal,
		Category: CategoryError,
	}
}
