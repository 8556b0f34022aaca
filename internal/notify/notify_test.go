package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/airwaves/internal/catalog"
)

func TestUrgencyValues(t *testing.T) {
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

func TestNowPlaying(t *testing.T) {
	n := NowPlaying(catalog.Station{
		Name:    "Radio Nova",
		Country: "France",
		TagList: "eclectic, jazz,hip-hop,electro",
	})

	assert.Equal(t, "Radio Nova", n.Title)
	assert.Equal(t, "France · eclectic, jazz, hip-hop", n.Body)
	assert.Equal(t, UrgencyLow, n.Urgency)
	assert.Equal(t, CategoryMusic, n.Category)
	assert.True(t, n.Transient)
	assert.Zero(t, n.ReplacesID)
}

func TestNowPlaying_NoDetails(t *testing.T) {
	n := NowPlaying(catalog.Station{Name: "Bare"})
	assert.Empty(t, n.Body)
}

func TestPlaybackFailed(t *testing.T) {
	n := PlaybackFailed(catalog.Station{Name: "Dead FM"}, "Failed to find a working stream for 'Dead FM'")

	assert.Equal(t, "Dead FM", n.Title)
	assert.Contains(t, n.Body, "working stream")
	assert.Equal(t, UrgencyNormal, n.Urgency)
	assert.Equal(t, CategoryError, n.Category)
	assert.False(t, n.Transient, "failures stay in the notification history")
}

func TestNop(t *testing.T) {
	n := Nop()
	id, err := n.Notify(NowPlaying(catalog.Station{Name: "Radio Nova"}))
	assert.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, n.Close(id))
}
