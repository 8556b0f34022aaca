// Package playback owns the single playback session: it drives the status
// machine from user commands and media events and falls back to alternate
// streams when a station fails.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/player"
)

const (
	defaultFallbackLimit = 10
	defaultLookupTimeout = 10 * time.Second
)

// AlternateFinder looks up stations sharing a display name.
type AlternateFinder interface {
	SearchByName(ctx context.Context, name string, limit int) ([]catalog.Station, error)
}

// VolumeStore persists the volume settings.
type VolumeStore interface {
	SaveVolume(volume float64, muted bool) error
}

// Controller is the playback state machine. All methods are safe for
// concurrent use and never block on I/O.
type Controller struct {
	mu sync.Mutex

	sink    player.Interface
	finder  AlternateFinder
	volumes VolumeStore
	log     zerolog.Logger

	fallbackLimit int
	lookupTimeout time.Duration

	status  Status
	station *catalog.Station
	message string
	lastErr string
	queue   []catalog.Station
	index   int

	// load identifies the current sink assignment; epoch the current
	// session. Completions carrying older values are ignored.
	load         uint64
	epoch        uint64
	resolving    bool
	cancelLookup context.CancelFunc
	lookups      sync.WaitGroup

	volume float64
	muted  bool

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithFallbackLimit bounds the number of alternates fetched on first failure.
func WithFallbackLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.fallbackLimit = n
		}
	}
}

// WithLookupTimeout bounds the alternate lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.lookupTimeout = d
		}
	}
}

// WithVolumeStore persists volume changes.
func WithVolumeStore(vs VolumeStore) Option {
	return func(c *Controller) { c.volumes = vs }
}

// WithVolume sets the initial volume, typically the saved one.
func WithVolume(level float64, muted bool) Option {
	return func(c *Controller) {
		c.volume = clampVolume(level)
		c.muted = muted
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller owning sink. finder may be nil, in which case a
// failing station goes straight to Error.
func New(sink player.Interface, finder AlternateFinder, opts ...Option) *Controller {
	c := &Controller{
		sink:          sink,
		finder:        finder,
		log:           zerolog.Nop(),
		fallbackLimit: defaultFallbackLimit,
		lookupTimeout: defaultLookupTimeout,
		status:        StatusIdle,
		volume:        1,
	}
	for _, opt := range opts {
		opt(c)
	}

	sink.SetVolume(c.volume)
	sink.SetMuted(c.muted)
	sink.OnEvent(c.HandleEvent)
	return c
}

// PlayStation starts playing st. Selecting the station that is already
// loading or playing does nothing; selecting the paused station resumes it.
func (c *Controller) PlayStation(st catalog.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if c.station != nil && c.station.ID == st.ID {
		switch c.status {
		case StatusLoading, StatusPlaying:
			return
		case StatusPaused:
			c.sink.Resume()
			c.transitionLocked(StatusPlaying)
			return
		}
	}

	c.startLocked(st)
}

// TogglePlayPause pauses a playing station or resumes a paused one.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch c.status {
	case StatusPlaying:
		c.sink.Pause()
		c.transitionLocked(StatusPaused)
	case StatusPaused:
		c.sink.Resume()
		c.transitionLocked(StatusPlaying)
	default:
		// Nothing to toggle while loading, stopped or failed
	}
}

// Stop ends playback and releases the stream. The station is kept for
// display; the candidate queue is cleared.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.status == StatusIdle {
		return
	}

	c.endSessionLocked()
	c.queue = nil
	c.index = 0
	c.message = ""
	c.lastErr = ""
	c.transitionLocked(StatusStopped)
}

// HandleEvent applies a media event. Events about a station or load other
// than the current one are ignored.
func (c *Controller) HandleEvent(ev player.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if c.isStaleLocked(ev) {
		c.log.Debug().
			Str("station", ev.StationID).
			Uint64("load", ev.Load).
			Stringer("event", ev.Type).
			Msg("ignoring stale media event")
		return
	}

	switch ev.Type {
	case player.EventPlaying:
		if c.status == StatusLoading || c.status == StatusPaused {
			c.message = ""
			c.transitionLocked(StatusPlaying)
		}
	case player.EventPaused:
		if c.status == StatusPlaying {
			c.transitionLocked(StatusPaused)
		}
	case player.EventStalled:
		if c.status == StatusPlaying {
			c.transitionLocked(StatusLoading)
		}
	case player.EventError, player.EventEnded:
		if c.status == StatusLoading || c.status == StatusPlaying {
			c.failLocked(ev)
		}
	}
}

func (c *Controller) isStaleLocked(ev player.Event) bool {
	if !c.status.acceptsMedia() || c.station == nil || c.resolving {
		return true
	}
	if ev.StationID != c.station.ID {
		return true
	}
	return ev.Load != c.load
}

// startLocked replaces the session with a fresh one for st.
func (c *Controller) startLocked(st catalog.Station) {
	c.endSessionLocked()
	c.queue = []catalog.Station{st}
	c.index = 0
	c.lastErr = ""
	c.loadLocked("")
}

// endSessionLocked drops interest in everything the current session
// started.
func (c *Controller) endSessionLocked() {
	c.epoch++
	c.resolving = false
	if c.cancelLookup != nil {
		c.cancelLookup()
		c.cancelLookup = nil
	}
	if c.status.IsActive() {
		c.sink.Stop()
	}
}

// loadLocked assigns the candidate at index to the sink.
func (c *Controller) loadLocked(message string) {
	st := c.queue[c.index]
	c.station = &st
	c.message = message
	c.load++

	c.sink.SetVolume(c.volume)
	c.sink.SetMuted(c.muted)
	c.sink.Load(player.Source{
		StationID: st.ID,
		URL:       st.PlaybackURL(),
		Codec:     st.Codec,
		Load:      c.load,
	})
	c.transitionLocked(StatusLoading)
}

func (c *Controller) transitionLocked(to Status) {
	prev := c.status
	c.status = to

	change := Change{
		Previous: prev,
		Current:  to,
		Message:  c.message,
		Err:      c.lastErr,
		Attempts: len(c.queue),
	}
	if c.station != nil {
		st := *c.station
		change.Station = &st
	}
	if len(c.queue) > 0 {
		change.Attempt = c.index + 1
	}

	ev := c.log.Info()
	if change.Station != nil {
		ev = ev.Str("station", change.Station.ID).Str("name", change.Station.Name)
	}
	ev.Stringer("from", prev).Stringer("to", to).Str("message", c.message).Msg("playback transition")

	c.broadcast(change)
}

func (c *Controller) broadcast(change Change) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.send(change)
	}
}

// Session returns a snapshot of the playback session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Session{
		Status:  c.status,
		Message: c.message,
		Err:     c.lastErr,
		Index:   c.index,
		Volume:  c.volume,
		Muted:   c.muted,
	}
	if c.station != nil {
		st := *c.station
		s.Station = &st
	}
	if len(c.queue) > 0 {
		s.Candidates = append([]catalog.Station(nil), c.queue...)
	}
	return s
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close stops playback, waits for pending lookups and closes subscriptions.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.endSessionLocked()
	c.mu.Unlock()

	c.lookups.Wait()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return c.sink.Close()
}
