package app

import (
	"context"
	"net/url"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/favorites"
	"github.com/llehouerou/airwaves/internal/playback"
)

// Playback is the part of the playback controller the UI drives.
type Playback interface {
	PlayStation(st catalog.Station)
	TogglePlayPause()
	Stop()
	AdjustVolume(delta int)
	ToggleMute()
	Session() playback.Session
	Subscribe() *playback.Subscription
}

// Favorites is the part of the favorites synchronizer the UI drives.
type Favorites interface {
	Initialize(ctx context.Context) error
	Toggle(stationID string) (bool, error)
	Contains(stationID string) bool
	IDs() []string
	List() favorites.List
	Subscribe() *favorites.Subscription
}

// Directory looks up stations in the catalog.
type Directory interface {
	Search(ctx context.Context, p catalog.SearchParams) ([]catalog.Station, error)
	ByUUIDs(ctx context.Context, ids ...string) ([]catalog.Station, error)
	ByTag(ctx context.Context, tag string, limit int) ([]catalog.Station, error)
	ByCountry(ctx context.Context, country string, limit int) ([]catalog.Station, error)
	Tags(ctx context.Context, q url.Values) ([]catalog.Tag, error)
	Countries(ctx context.Context, q url.Values) ([]catalog.Country, error)
}

var (
	_ Playback  = (*playback.Controller)(nil)
	_ Favorites = (*favorites.Synchronizer)(nil)
	_ Directory = (*catalog.Client)(nil)
)
