package playback

import (
	"github.com/llehouerou/airwaves/internal/errmsg"
)

const volumeStep = 0.05

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetVolume sets the output level in [0,1], applies it and persists it.
func (c *Controller) SetVolume(level float64) {
	c.mu.Lock()
	vol, muted := c.setVolumeLocked(level)
	c.mu.Unlock()

	c.saveVolume(vol, muted)
}

// AdjustVolume changes the level by delta steps of 5%.
func (c *Controller) AdjustVolume(delta int) {
	c.mu.Lock()
	vol, muted := c.setVolumeLocked(c.volume + float64(delta)*volumeStep)
	c.mu.Unlock()

	c.saveVolume(vol, muted)
}

func (c *Controller) setVolumeLocked(level float64) (float64, bool) {
	c.volume = clampVolume(level)
	c.sink.SetVolume(c.volume)
	return c.volume, c.muted
}

// ToggleMute flips the mute flag, applies it and persists it.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	c.muted = !c.muted
	c.sink.SetMuted(c.muted)
	vol, muted := c.volume, c.muted
	c.mu.Unlock()

	c.saveVolume(vol, muted)
}

// Volume returns the current level and mute flag.
func (c *Controller) Volume() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume, c.muted
}

func (c *Controller) saveVolume(vol float64, muted bool) {
	if c.volumes == nil {
		return
	}
	if err := c.volumes.SaveVolume(vol, muted); err != nil {
		c.log.Error().Err(err).Msg(errmsg.Format(errmsg.OpVolumeSave, err))
	}
}
