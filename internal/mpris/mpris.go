//go:build linux

// Package mpris exposes the playback controller on the session bus so
// desktop media keys and applets can drive it.
package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/playback"
)

// Controller is the part of the playback controller MPRIS drives.
type Controller interface {
	PlayStation(st catalog.Station)
	TogglePlayPause()
	Stop()
	SetVolume(level float64)
	Session() playback.Session
}

// Adapter connects the playback controller to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("airwaves", &rootAdapter{}, &playerAdapter{ctrl: ctrl}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "airwaves", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/mp3"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	ctrl Controller
}

// Live streams have no neighbours.
func (p *playerAdapter) Next() error     { return nil }
func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	if p.ctrl.Session().Status == playback.StatusPlaying {
		p.ctrl.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	s := p.ctrl.Session()
	switch s.Status {
	case playback.StatusPlaying, playback.StatusPaused:
		p.ctrl.TogglePlayPause()
	case playback.StatusStopped, playback.StatusError:
		if s.Station != nil {
			p.ctrl.PlayStation(*s.Station)
		}
	case playback.StatusIdle, playback.StatusLoading:
	}
	return nil
}

func (p *playerAdapter) Stop() error {
	p.ctrl.Stop()
	return nil
}

// Play resumes a paused station or restarts the last one.
func (p *playerAdapter) Play() error {
	s := p.ctrl.Session()
	switch s.Status {
	case playback.StatusPaused:
		p.ctrl.TogglePlayPause()
	case playback.StatusStopped, playback.StatusError:
		if s.Station != nil {
			p.ctrl.PlayStation(*s.Station)
		}
	case playback.StatusIdle, playback.StatusLoading, playback.StatusPlaying:
	}
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Live streams cannot seek
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.Session().Status {
	case playback.StatusPlaying, playback.StatusLoading:
		return types.PlaybackStatusPlaying, nil
	case playback.StatusPaused:
		return types.PlaybackStatusPaused, nil
	case playback.StatusIdle, playback.StatusStopped, playback.StatusError:
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	st := p.ctrl.Session().Station
	if st == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(st.ID)),
		Title:   st.Name,
		Album:   st.TagList,
	}
	if st.Country != "" {
		meta.Artist = []string{st.Country}
	}
	if st.Favicon != "" {
		meta.ArtUrl = st.Favicon
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	s := p.ctrl.Session()
	if s.Muted {
		return 0, nil
	}
	return s.Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.ctrl.SetVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.ctrl.Session().Station != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.ctrl.Session().Status == playback.StatusPlaying, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(stationID string) string {
	h := fnv.New64a()
	h.Write([]byte(stationID))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
