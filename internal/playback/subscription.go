package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	Changed <-chan Change
	Done    <-chan struct{}

	// Internal write channels
	changeCh chan Change
	doneCh   chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		changeCh: make(chan Change, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Changed = s.changeCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send sends a change event (non-blocking).
func (s *Subscription) send(e Change) {
	select {
	case s.changeCh <- e:
	default:
		// Drop if buffer full
	}
}
