// Package app contains the root bubbletea model of the radio client.
package app

import (
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/favorites"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/categorylist"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
)

// PlaybackChangedMsg carries a playback transition.
type PlaybackChangedMsg playback.Change

// PlaybackClosedMsg is sent when the controller shut down.
type PlaybackClosedMsg struct{}

// FavoritesChangedMsg carries a favorites list update.
type FavoritesChangedMsg favorites.Change

// FavoritesClosedMsg is sent when the synchronizer shut down.
type FavoritesClosedMsg struct{}

// FavoritesReadyMsg is sent when a favorites fetch attempt finished.
type FavoritesReadyMsg struct {
	Err error
}

// favoritesRetryMsg asks for another favorites fetch after a failure.
type favoritesRetryMsg struct{}

// StationsLoadedMsg carries the result of a catalog query for a view.
// Seq identifies the request so late answers are dropped.
type StationsLoadedMsg struct {
	View     headerbar.View
	Seq      int
	Stations []catalog.Station
	Err      error
}

// CategoriesLoadedMsg carries the genres or countries of a browsable view.
type CategoriesLoadedMsg struct {
	View  headerbar.View
	Seq   int
	Items []categorylist.Item
	Err   error
}

// StationsResolvedMsg carries station details fetched by ID.
type StationsResolvedMsg struct {
	Stations []catalog.Station
	Err      error
}

// StderrMsg carries a line captured from a C library.
type StderrMsg struct {
	Line string
}

// clearNoticeMsg hides the notice line if it is still the one with Seq.
type clearNoticeMsg struct {
	Seq int
}

// notifiedMsg carries the ID of the desktop notification last shown.
type notifiedMsg struct {
	ID uint32
}
