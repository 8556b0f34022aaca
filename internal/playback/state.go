package playback

// Status represents the playback session status.
//
// Valid transitions:
//   - any     → Loading (PlayStation with a new station, or one not active)
//   - Paused  → Playing (PlayStation with the current station, toggle, media playing)
//   - Loading → Playing (media playing)
//   - Playing → Paused  (toggle, media paused)
//   - Playing → Loading (media stalled, or fallback to the next candidate)
//   - Loading → Error   (every candidate failed)
//   - any     → Stopped (Stop, except from Idle)
//
// Error and Stopped are left only by a new play command.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusStopped
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusStopped:
		return "Stopped"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a stream is assigned (loading, playing or paused).
func (s Status) IsActive() bool {
	return s == StatusLoading || s == StatusPlaying || s == StatusPaused
}

// acceptsMedia returns true if media events can apply in this status.
func (s Status) acceptsMedia() bool {
	return s.IsActive()
}
