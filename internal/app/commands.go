package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/stderr"
	"github.com/llehouerou/airwaves/internal/ui/categorylist"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
)

const (
	requestTimeout = 15 * time.Second
	noticeDuration = 5 * time.Second
	topLimit       = 100
	searchLimit    = 100
	browseLimit    = 100
	tagLimit       = 300

	retryBase = 2 * time.Second
	retryMax  = time.Minute
)

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchPlayback waits for the next playback change.
func (m Model) WatchPlayback() tea.Cmd {
	sub := m.playbackSub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.Changed:
			return PlaybackChangedMsg(e)
		case <-sub.Done:
			return PlaybackClosedMsg{}
		}
	}
}

// WatchFavorites waits for the next favorites change.
func (m Model) WatchFavorites() tea.Cmd {
	sub := m.favoritesSub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.Changed:
			return FavoritesChangedMsg(e)
		case <-sub.Done:
			return FavoritesClosedMsg{}
		}
	}
}

// WatchStderr returns a command that waits for stderr output from C libraries.
func WatchStderr() tea.Cmd {
	return waitForChannel(stderr.Messages, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

// initFavoritesCmd runs a favorites fetch. The synchronizer keeps local
// mutations made in between, so it is safe to call again after a failure.
func initFavoritesCmd(f Favorites) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return FavoritesReadyMsg{Err: f.Initialize(ctx)}
	}
}

// retryDelay doubles from retryBase with each failed attempt, up to retryMax.
func retryDelay(attempt int) time.Duration {
	d := retryBase
	for i := 1; i < attempt && d < retryMax; i++ {
		d *= 2
	}
	return min(d, retryMax)
}

// favoritesRetryCmd schedules the next favorites fetch.
func favoritesRetryCmd(attempt int) tea.Cmd {
	return tea.Tick(retryDelay(attempt), func(time.Time) tea.Msg {
		return favoritesRetryMsg{}
	})
}

// categoriesCmd lists the genres or countries of view v.
func categoriesCmd(dir Directory, v headerbar.View, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msg := CategoriesLoadedMsg{View: v, Seq: seq}
		switch v {
		case headerbar.ViewGenres:
			tags, err := dir.Tags(ctx, catalog.BrowseQuery(tagLimit))
			msg.Err = err
			for _, t := range tags {
				msg.Items = append(msg.Items, categorylist.Item{Name: t.Name, Count: t.StationCount})
			}
		case headerbar.ViewCountries:
			countries, err := dir.Countries(ctx, catalog.BrowseQuery(0))
			msg.Err = err
			for _, c := range countries {
				msg.Items = append(msg.Items, categorylist.Item{Name: c.Name, Count: c.StationCount})
			}
		}
		return msg
	}
}

// browseCmd lists the stations of category name in view v.
func browseCmd(dir Directory, v headerbar.View, seq int, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var stations []catalog.Station
		var err error
		if v == headerbar.ViewGenres {
			stations, err = dir.ByTag(ctx, name, browseLimit)
		} else {
			stations, err = dir.ByCountry(ctx, name, browseLimit)
		}
		return StationsLoadedMsg{View: v, Seq: seq, Stations: stations, Err: err}
	}
}

// searchCmd queries the directory for view.
func searchCmd(dir Directory, view headerbar.View, seq int, p catalog.SearchParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stations, err := dir.Search(ctx, p)
		return StationsLoadedMsg{View: view, Seq: seq, Stations: stations, Err: err}
	}
}

// topParams is the query behind the Top view.
func topParams() catalog.SearchParams {
	return catalog.SearchParams{Order: "votes", Reverse: true, HideBroken: true, Limit: topLimit}
}

// searchParams is the query behind the Search view.
func searchParams(query string) catalog.SearchParams {
	return catalog.SearchParams{Name: query, Order: "votes", Reverse: true, HideBroken: true, Limit: searchLimit}
}

// resolveCmd fetches station details for favorites not seen in any list.
func resolveCmd(dir Directory, ids []string) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stations, err := dir.ByUUIDs(ctx, ids...)
		return StationsResolvedMsg{Stations: stations, Err: err}
	}
}

// clearNoticeCmd hides notice seq after a delay.
func clearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{Seq: seq}
	})
}
