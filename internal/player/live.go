package player

import (
	"context"
	"sync"

	"github.com/gopxl/beep/v2"
)

const (
	sampleChannelSize = 8192
	pumpChunkSize     = 512
)

// liveStreamer feeds the speaker from a channel filled by a decode
// goroutine, so a slow network never blocks the speaker mixer. An empty
// channel is rendered as silence and reported as a stall.
type liveStreamer struct {
	samples chan [2]float64

	// Touched only from the speaker goroutine.
	started bool
	stalled bool

	onStart  func()
	onStall  func()
	onResume func()

	mu  sync.Mutex
	err error
}

func newLiveStreamer(onStart, onStall, onResume func()) *liveStreamer {
	return &liveStreamer{
		samples:  make(chan [2]float64, sampleChannelSize),
		onStart:  onStart,
		onStall:  onStall,
		onResume: onResume,
	}
}

// Stream implements beep.Streamer.
func (s *liveStreamer) Stream(buf [][2]float64) (int, bool) {
	n := 0
	for n < len(buf) {
		select {
		case smp, ok := <-s.samples:
			if !ok {
				s.flowing(n)
				return n, n > 0
			}
			buf[n] = smp
			n++
		default:
			s.flowing(n)
			clear(buf[n:])
			if n == 0 {
				s.underrun()
			}
			return len(buf), true
		}
	}
	s.flowing(n)
	return n, true
}

// Err implements beep.Streamer.
func (s *liveStreamer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *liveStreamer) flowing(n int) {
	if n == 0 {
		return
	}
	switch {
	case !s.started:
		s.started = true
		if s.onStart != nil {
			s.onStart()
		}
	case s.stalled:
		s.stalled = false
		if s.onResume != nil {
			s.onResume()
		}
	}
}

func (s *liveStreamer) underrun() {
	if !s.started || s.stalled {
		return
	}
	s.stalled = true
	if s.onStall != nil {
		s.onStall()
	}
}

// fill decodes src into the sample channel until src ends or ctx is done,
// then closes the channel.
func (s *liveStreamer) fill(ctx context.Context, src beep.Streamer) {
	err := pump(ctx, src, s.samples)
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.samples)
}

func pump(ctx context.Context, src beep.Streamer, out chan<- [2]float64) error {
	buf := make([][2]float64, pumpChunkSize)
	for {
		n, ok := src.Stream(buf)
		for i := range n {
			select {
			case out <- buf[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if !ok {
			return src.Err()
		}
	}
}
