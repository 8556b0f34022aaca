package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
)

// mockNotifier records notifications for testing.
type mockNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
	nextID        uint32
}

func (m *mockNotifier) Notify(n notify.Notification) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	m.nextID++
	return m.nextID, nil
}

func (m *mockNotifier) Close(_ uint32) error {
	return nil
}

func (m *mockNotifier) sent() []notify.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notification(nil), m.notifications...)
}

func withNotifier(h *harness) *mockNotifier {
	mock := &mockNotifier{}
	h.model.notifier = mock
	h.model.notifyTimeout = int32((3 * time.Second).Milliseconds())
	return mock
}

func TestNotifyPlayback_NowPlaying(t *testing.T) {
	h := newHarness(t)
	mock := withNotifier(h)
	st := &catalog.Station{ID: "a", Name: "Alpha FM", Country: "France"}

	cmd := h.model.notifyPlayback(playback.Change{
		Previous: playback.StatusLoading,
		Current:  playback.StatusPlaying,
		Station:  st,
	})
	require.NotNil(t, cmd)
	h.send(cmd())

	sent := mock.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Alpha FM", sent[0].Title)
	assert.Equal(t, int32(3000), sent[0].Timeout)
	assert.Equal(t, notify.UrgencyLow, sent[0].Urgency)
	assert.Equal(t, uint32(1), h.model.notifiedID)
}

func TestNotifyPlayback_ReplacesPrevious(t *testing.T) {
	h := newHarness(t)
	mock := withNotifier(h)
	h.model.notifiedID = 42

	cmd := h.model.notifyPlayback(playback.Change{
		Previous: playback.StatusLoading,
		Current:  playback.StatusError,
		Station:  &catalog.Station{Name: "Dead FM"},
		Err:      "Failed to find a working stream for 'Dead FM'",
	})
	require.NotNil(t, cmd)
	cmd()

	sent := mock.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, uint32(42), sent[0].ReplacesID)
	assert.Equal(t, notify.UrgencyNormal, sent[0].Urgency)
}

func TestNotifyPlayback_IgnoresResume(t *testing.T) {
	h := newHarness(t)
	withNotifier(h)

	cmd := h.model.notifyPlayback(playback.Change{
		Previous: playback.StatusPaused,
		Current:  playback.StatusPlaying,
		Station:  &catalog.Station{Name: "Alpha FM"},
	})

	assert.Nil(t, cmd)
}

func TestNotifyPlayback_NilNotifier(t *testing.T) {
	h := newHarness(t)

	cmd := h.model.notifyPlayback(playback.Change{
		Previous: playback.StatusLoading,
		Current:  playback.StatusPlaying,
		Station:  &catalog.Station{Name: "Alpha FM"},
	})

	assert.Nil(t, cmd)
}
