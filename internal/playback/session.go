package playback

import "github.com/llehouerou/airwaves/internal/catalog"

// Session is a snapshot of the playback session.
type Session struct {
	Station    *catalog.Station
	Status     Status
	Message    string
	Err        string
	Candidates []catalog.Station
	Index      int
	Volume     float64
	Muted      bool
}

// Attempt returns the 1-based candidate position, or 0 with no candidates.
func (s Session) Attempt() int {
	if len(s.Candidates) == 0 {
		return 0
	}
	return s.Index + 1
}
