// Package player drives the audio output for live radio streams.
//
// The player is a media sink: the playback controller assigns it a stream
// source and issues play/pause/stop primitives, and the player reports what
// actually happened through asynchronous events.
package player

// Source is one stream assignment. Load is a token chosen by the caller and
// echoed in every event caused by this assignment.
type Source struct {
	StationID string
	URL       string
	Codec     string // directory codec hint, e.g. "MP3"; empty means unknown
	Load      uint64
}

// Interface defines the media sink contract for dependency injection and
// testing.
//
// Implementations must deliver events asynchronously: the handler passed to
// OnEvent is never invoked from inside a call to one of these methods.
type Interface interface {
	// Load releases any current stream, assigns src and starts playback.
	Load(src Source)
	// Pause suspends output and keeps the stream.
	Pause()
	// Resume continues a paused stream.
	Resume()
	// Stop releases the stream. No event is emitted.
	Stop()
	SetVolume(level float64)
	SetMuted(muted bool)
	OnEvent(fn func(Event))
	Close() error
}

// Verify StreamPlayer implements Interface at compile time.
var _ Interface = (*StreamPlayer)(nil)
