package playback

import "github.com/llehouerou/airwaves/internal/catalog"

// Change is emitted on every accepted transition, including a switch to a
// different station while already loading.
type Change struct {
	Previous Status
	Current  Status
	Station  *catalog.Station
	Message  string // transient status text, e.g. the fallback attempt
	Err      string // terminal error text (StatusError only)
	Attempt  int    // 1-based position in the candidate queue, 0 when empty
	Attempts int    // candidate queue length
}
