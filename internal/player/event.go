package player

// EventType is the bounded set of media lifecycle events.
type EventType int

const (
	// EventPlaying: audio is actually flowing (first samples or resume).
	EventPlaying EventType = iota + 1
	// EventPaused: output suspended.
	EventPaused
	// EventStalled: buffer underrun while playing.
	EventStalled
	// EventError: the stream could not be opened or decoded.
	EventError
	// EventEnded: the server closed the live stream.
	EventEnded
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventStalled:
		return "stalled"
	case EventError:
		return "error"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// IsFailure returns true for events that end the current stream.
func (t EventType) IsFailure() bool {
	return t == EventError || t == EventEnded
}

// Event is a media lifecycle notification about one stream assignment.
type Event struct {
	Type      EventType
	StationID string
	Load      uint64
	Err       error // set for EventError
}

func (s Source) event(t EventType, err error) Event {
	return Event{Type: t, StationID: s.StationID, Load: s.Load, Err: err}
}
