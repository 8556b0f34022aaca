package playback

import (
	"context"
	"fmt"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/player"
)

// failLocked runs the fallback procedure for the candidate at index.
// Alternates are discovered once, on the first failure of a session.
func (c *Controller) failLocked(ev player.Event) {
	l := c.log.Warn().
		Str("station", ev.StationID).
		Int("attempt", c.index+1).
		Int("candidates", len(c.queue)).
		Stringer("event", ev.Type)
	if ev.Err != nil {
		l = l.Err(ev.Err)
	}
	l.Msg("stream failed")

	c.sink.Stop()

	if len(c.queue) == 1 && c.finder != nil {
		c.lookupAlternatesLocked(c.queue[0])
		return
	}
	c.advanceLocked()
}

// lookupAlternatesLocked queries the finder off the lock. Media events are
// ignored until the result is applied.
func (c *Controller) lookupAlternatesLocked(st catalog.Station) {
	ctx, cancel := context.WithTimeout(context.Background(), c.lookupTimeout)
	c.cancelLookup = cancel
	c.resolving = true
	epoch := c.epoch
	limit := c.fallbackLimit

	c.lookups.Add(1)
	go func() {
		defer c.lookups.Done()
		defer cancel()
		found, err := c.finder.SearchByName(ctx, st.Name, limit)
		c.alternatesResolved(epoch, found, err)
	}()
}

// alternatesResolved appends the lookup result to the queue and advances,
// unless the session changed in the meantime.
func (c *Controller) alternatesResolved(epoch uint64, found []catalog.Station, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch || !c.resolving {
		return
	}
	c.resolving = false
	c.cancelLookup = nil

	if err != nil {
		c.log.Warn().Err(err).Str("name", c.queue[0].Name).Msg("alternate lookup failed")
	} else {
		added := c.appendCandidatesLocked(found)
		c.log.Debug().
			Str("name", c.queue[0].Name).
			Int("found", len(found)).
			Int("added", added).
			Msg("alternate lookup done")
	}
	c.advanceLocked()
}

// appendCandidatesLocked adds stations not yet queued, skipping those
// without a stream URL. It returns the number added.
func (c *Controller) appendCandidatesLocked(found []catalog.Station) int {
	seen := make(map[string]struct{}, len(c.queue)+len(found))
	for _, st := range c.queue {
		seen[st.ID] = struct{}{}
	}
	added := 0
	for _, st := range found {
		if st.ID == "" || st.PlaybackURL() == "" {
			continue
		}
		if _, ok := seen[st.ID]; ok {
			continue
		}
		seen[st.ID] = struct{}{}
		c.queue = append(c.queue, st)
		added++
	}
	return added
}

// advanceLocked moves to the next candidate, or to Error when the queue is
// exhausted.
func (c *Controller) advanceLocked() {
	c.index++
	if c.index < len(c.queue) {
		c.loadLocked(fmt.Sprintf("Trying alternate stream (attempt %d of %d)", c.index+1, len(c.queue)))
		return
	}

	requested := c.queue[0]
	c.station = &requested
	c.queue = nil
	c.index = 0
	c.message = ""
	c.lastErr = errmsg.Failed(errmsg.OpPlaybackFallback, requested.Name)
	c.transitionLocked(StatusError)
}
