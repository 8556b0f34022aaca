package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	outputSampleRate  = beep.SampleRate(44100)
	speakerBufferSize = 250 * time.Millisecond
	connectTimeout    = 10 * time.Second
	defaultUserAgent  = "airwaves/1.0"

	// eventQueueSize bounds the events of one stream awaiting delivery.
	eventQueueSize = 64
)

var (
	// ErrUnsupportedCodec is reported for streams the decoder cannot play.
	ErrUnsupportedCodec = errors.New("unsupported codec")
	// ErrPlaylistURL is reported when the URL serves a playlist, not audio.
	ErrPlaylistURL = errors.New("url points to a playlist")
)

var (
	speakerOnce sync.Once
	speakerErr  error
	speakerUp   bool
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputSampleRate, outputSampleRate.N(speakerBufferSize))
		speakerUp = speakerErr == nil
	})
	return speakerErr
}

// StreamPlayer plays live MP3 streams over HTTP through the beep speaker.
type StreamPlayer struct {
	mu         sync.Mutex
	httpClient *http.Client
	userAgent  string
	log        zerolog.Logger

	onEvent func(Event)
	current *stream
	level   float64
	muted   bool
	closed  bool
}

// stream is one Load; it is replaced wholesale by the next Load or Stop.
// Its events are delivered in order by a single dispatch goroutine.
type stream struct {
	src    Source
	cancel context.CancelFunc
	ctrl   *beep.Ctrl
	volume *effects.Volume
	body   io.Closer
	paused bool

	events chan Event
	done   chan struct{}
}

func newStream(src Source, cancel context.CancelFunc) *stream {
	return &stream{
		src:    src,
		cancel: cancel,
		events: make(chan Event, eventQueueSize),
		done:   make(chan struct{}),
	}
}

// Option configures a StreamPlayer.
type Option func(*StreamPlayer)

// WithHTTPClient sets the client used to open streams. It must not have an
// overall timeout since live streams never end.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *StreamPlayer) { p.httpClient = hc }
}

// WithUserAgent sets the User-Agent sent to stream servers.
func WithUserAgent(ua string) Option {
	return func(p *StreamPlayer) { p.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *StreamPlayer) { p.log = l }
}

// NewStreamPlayer creates a stream player at full volume.
func NewStreamPlayer(opts ...Option) *StreamPlayer {
	p := &StreamPlayer{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				TLSHandshakeTimeout:   connectTimeout,
				ResponseHeaderTimeout: connectTimeout,
			},
		},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
		level:     1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnEvent registers the event handler.
func (p *StreamPlayer) OnEvent(fn func(Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEvent = fn
}

// Load releases the current stream and starts connecting to src.
func (p *StreamPlayer) Load(src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.releaseLocked()

	ctx, cancel := context.WithCancel(context.Background())
	st := newStream(src, cancel)
	p.current = st
	go p.dispatch(st)
	go p.run(ctx, st)
}

// dispatch delivers the events of st until it is released.
func (p *StreamPlayer) dispatch(st *stream) {
	for {
		select {
		case ev := <-st.events:
			p.deliver(st, ev)
		case <-st.done:
			return
		}
	}
}

func (p *StreamPlayer) run(ctx context.Context, st *stream) {
	log := p.log.With().Str("station", st.src.StationID).Uint64("load", st.src.Load).Logger()

	if !isSupportedCodec(st.src.Codec) {
		p.send(st, st.src.event(EventError, fmt.Errorf("%w: %s", ErrUnsupportedCodec, st.src.Codec)))
		return
	}

	body, err := p.open(ctx, st.src.URL)
	if err != nil {
		p.send(st, st.src.event(EventError, err))
		return
	}

	dec, format, err := decodeMP3Stream(body)
	if err != nil {
		body.Close()
		p.send(st, st.src.event(EventError, fmt.Errorf("decode stream: %w", err)))
		return
	}

	if err := initSpeaker(); err != nil {
		dec.Close()
		p.send(st, st.src.event(EventError, fmt.Errorf("init speaker: %w", err)))
		return
	}

	var source beep.Streamer = dec
	if format.SampleRate != outputSampleRate {
		source = beep.Resample(4, format.SampleRate, outputSampleRate, dec)
	}

	live := newLiveStreamer(
		func() { p.emit(st, EventPlaying) },
		func() { p.emit(st, EventStalled) },
		func() { p.emit(st, EventPlaying) },
	)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != st {
		dec.Close()
		return
	}

	st.body = dec
	st.volume = &effects.Volume{Streamer: live, Base: 2, Volume: levelToVolume(p.level), Silent: p.muted}
	st.ctrl = &beep.Ctrl{Streamer: st.volume, Paused: st.paused}

	go live.fill(ctx, source)
	speaker.Play(beep.Seq(st.ctrl, beep.Callback(func() {
		go p.finished(st, live)
	})))

	log.Debug().Int("sample_rate", int(format.SampleRate)).Msg("stream connected")
}

// open connects to the stream URL and returns the audio body.
func (p *StreamPlayer) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "mpegurl") || strings.Contains(ct, "scpls") {
		resp.Body.Close()
		return nil, fmt.Errorf("%w (%s)", ErrPlaylistURL, ct)
	}

	return resp.Body, nil
}

func (p *StreamPlayer) finished(st *stream, live *liveStreamer) {
	err := live.Err()
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		p.send(st, st.src.event(EventError, err))
		return
	}
	p.send(st, st.src.event(EventEnded, nil))
}

// send queues ev for st, waiting for room unless st is released.
func (p *StreamPlayer) send(st *stream, ev Event) {
	select {
	case st.events <- ev:
	case <-st.done:
	}
}

// emit queues t without blocking; used from speaker callbacks, which run
// with the speaker locked, and under p.mu.
func (p *StreamPlayer) emit(st *stream, t EventType) {
	select {
	case st.events <- st.src.event(t, nil):
	case <-st.done:
	default:
		p.log.Warn().Str("station", st.src.StationID).Stringer("event", t).Msg("event queue full, dropping event")
	}
}

// deliver calls the handler if st is still the current stream.
func (p *StreamPlayer) deliver(st *stream, ev Event) {
	p.mu.Lock()
	if p.current != st || p.onEvent == nil {
		p.mu.Unlock()
		return
	}
	fn := p.onEvent
	p.mu.Unlock()

	if ev.Err != nil {
		p.log.Warn().Err(ev.Err).Str("station", ev.StationID).Stringer("event", ev.Type).Msg("stream event")
	}
	fn(ev)
}

// Pause suspends output.
func (p *StreamPlayer) Pause() {
	p.setPaused(true, EventPaused)
}

// Resume continues output.
func (p *StreamPlayer) Resume() {
	p.setPaused(false, EventPlaying)
}

func (p *StreamPlayer) setPaused(paused bool, t EventType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.current
	if st == nil || st.paused == paused {
		return
	}
	st.paused = paused
	if st.ctrl == nil {
		// Still connecting; the ctrl is created with this flag.
		return
	}
	speaker.Lock()
	st.ctrl.Paused = paused
	speaker.Unlock()
	p.emit(st, t)
}

// Stop releases the current stream.
func (p *StreamPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *StreamPlayer) releaseLocked() {
	st := p.current
	if st == nil {
		return
	}
	p.current = nil
	st.cancel()
	close(st.done)
	if st.ctrl != nil && speakerUp {
		speaker.Clear()
	}
	if st.body != nil {
		st.body.Close()
	}
}

// SetVolume sets the volume level (0.0 to 1.0).
func (p *StreamPlayer) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = clampLevel(level)
	if st := p.current; st != nil && st.volume != nil {
		speaker.Lock()
		st.volume.Volume = levelToVolume(p.level)
		speaker.Unlock()
	}
}

// SetMuted sets the muted state.
func (p *StreamPlayer) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	if st := p.current; st != nil && st.volume != nil {
		speaker.Lock()
		st.volume.Silent = muted
		speaker.Unlock()
	}
}

// Close stops playback; later Loads are ignored.
func (p *StreamPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	p.closed = true
	return nil
}

func isSupportedCodec(codec string) bool {
	switch strings.ToUpper(strings.TrimSpace(codec)) {
	case "", "MP3", "UNKNOWN":
		return true
	default:
		return false
	}
}
