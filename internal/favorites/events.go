package favorites

const eventBufferSize = 16

// Reason tells why the list changed.
type Reason int

const (
	ReasonLoaded Reason = iota
	ReasonAdded
	ReasonRemoved
	ReasonRolledBack
)

func (r Reason) String() string {
	switch r {
	case ReasonLoaded:
		return "loaded"
	case ReasonAdded:
		return "added"
	case ReasonRemoved:
		return "removed"
	case ReasonRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// Change is emitted whenever the local list changes.
type Change struct {
	IDs       []string
	Reason    Reason
	StationID string // empty for ReasonLoaded
	Err       error  // remote failure that caused a rollback
}

// Subscription provides event channels for a subscriber.
type Subscription struct {
	Changed <-chan Change
	Done    <-chan struct{}

	changeCh chan Change
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		changeCh: make(chan Change, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Changed = s.changeCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking; dropped if the buffer is full.
func (s *Subscription) send(e Change) {
	select {
	case s.changeCh <- e:
	default:
	}
}
