package player

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedStreamer produces a fixed number of samples then returns ok=false.
type fixedStreamer struct {
	samples   int
	sampleVal float64
	produced  int
	err       error
}

func (f *fixedStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	remaining := f.samples - f.produced
	if remaining <= 0 {
		return 0, false
	}
	toWrite := min(len(samples), remaining)
	for i := range toWrite {
		samples[i] = [2]float64{f.sampleVal, f.sampleVal}
	}
	f.produced += toWrite
	return toWrite, true
}

func (f *fixedStreamer) Err() error { return f.err }

type callbackCounts struct {
	start, stall, resume int
}

func newCountingStreamer() (*liveStreamer, *callbackCounts) {
	c := &callbackCounts{}
	s := newLiveStreamer(
		func() { c.start++ },
		func() { c.stall++ },
		func() { c.resume++ },
	)
	return s, c
}

func TestLiveStreamer_SilenceBeforeStartIsNotAStall(t *testing.T) {
	s, c := newCountingStreamer()

	buf := make([][2]float64, 8)
	buf[0] = [2]float64{9, 9}
	n, ok := s.Stream(buf)

	assert.True(t, ok)
	assert.Equal(t, 8, n)
	assert.Equal(t, [2]float64{}, buf[0], "underrun renders silence")
	assert.Equal(t, callbackCounts{}, *c)
}

func TestLiveStreamer_StartStallResume(t *testing.T) {
	s, c := newCountingStreamer()
	buf := make([][2]float64, 4)

	for range 4 {
		s.samples <- [2]float64{0.5, 0.5}
	}
	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, c.start)
	assert.Equal(t, 0.5, buf[3][0])

	// Empty channel after start: stall, reported once.
	s.Stream(buf)
	s.Stream(buf)
	assert.Equal(t, 1, c.stall)

	s.samples <- [2]float64{0.1, 0.1}
	s.Stream(buf)
	assert.Equal(t, 1, c.resume)
	assert.Equal(t, 1, c.start, "start is reported once")
}

func TestLiveStreamer_ClosedChannelEnds(t *testing.T) {
	s, _ := newCountingStreamer()
	s.samples <- [2]float64{1, 1}
	close(s.samples)

	buf := make([][2]float64, 4)
	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
}

func TestLiveStreamer_FillPropagatesError(t *testing.T) {
	s, _ := newCountingStreamer()
	decodeErr := errors.New("corrupt frame")

	s.fill(context.Background(), &fixedStreamer{samples: 10, sampleVal: 1, err: decodeErr})

	count := 0
	for range s.samples {
		count++
	}
	assert.Equal(t, 10, count)
	assert.ErrorIs(t, s.Err(), decodeErr)
}

func TestPump_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan [2]float64) // unbuffered: the first send would block
	err := pump(ctx, &fixedStreamer{samples: 100}, out)

	require.ErrorIs(t, err, context.Canceled)
}

func TestPump_CleanEnd(t *testing.T) {
	out := make(chan [2]float64, 2000)
	err := pump(context.Background(), &fixedStreamer{samples: 1500, sampleVal: 0.2}, out)

	require.NoError(t, err)
	assert.Len(t, out, 1500)
}
