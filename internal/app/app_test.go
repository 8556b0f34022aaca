package app

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/favorites"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/player"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
)

type fakeDirectory struct {
	mu        sync.Mutex
	stations  []catalog.Station
	tags      []catalog.Tag
	countries []catalog.Country
	err       error
	searches  []catalog.SearchParams
	lookups   [][]string
	byTag     []string
	byCountry []string
}

func (d *fakeDirectory) Search(_ context.Context, p catalog.SearchParams) ([]catalog.Station, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.searches = append(d.searches, p)
	return d.stations, d.err
}

func (d *fakeDirectory) ByUUIDs(_ context.Context, ids ...string) ([]catalog.Station, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups = append(d.lookups, ids)
	var out []catalog.Station
	for _, st := range d.stations {
		for _, id := range ids {
			if st.ID == id {
				out = append(out, st)
			}
		}
	}
	return out, d.err
}

func (d *fakeDirectory) ByTag(_ context.Context, tag string, _ int) ([]catalog.Station, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byTag = append(d.byTag, tag)
	return d.stations, d.err
}

func (d *fakeDirectory) ByCountry(_ context.Context, country string, _ int) ([]catalog.Station, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byCountry = append(d.byCountry, country)
	return d.stations, d.err
}

func (d *fakeDirectory) Tags(_ context.Context, _ url.Values) ([]catalog.Tag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tags, d.err
}

func (d *fakeDirectory) Countries(_ context.Context, _ url.Values) ([]catalog.Country, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.countries, d.err
}

type harness struct {
	model Model
	sink  *player.Mock
	ctrl  *playback.Controller
	favs  *favorites.Synchronizer
	store *favorites.MemoryStore
	dir   *fakeDirectory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sink := player.NewMock()
	ctrl := playback.New(sink, nil)
	store := favorites.NewMemoryStore()
	ids := state.NewMock()
	ids.SetUserID("user-1")
	favs := favorites.New(store, ids)
	dir := &fakeDirectory{stations: []catalog.Station{
		{ID: "a", Name: "Alpha FM", StreamURL: "http://a.example/stream", Codec: "MP3", LastCheckOK: 1},
		{ID: "b", Name: "Beta Radio", StreamURL: "http://b.example/stream", Codec: "MP3", LastCheckOK: 1},
	}}
	t.Cleanup(func() {
		_ = favs.Close()
		_ = ctrl.Close()
	})

	m := New(Deps{Playback: ctrl, Favorites: favs, Directory: dir, Logger: zerolog.Nop()})
	h := &harness{model: m, sink: sink, ctrl: ctrl, favs: favs, store: store, dir: dir}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) key(k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "f4":
		msg = tea.KeyMsg{Type: tea.KeyF4}
	case "f5":
		msg = tea.KeyMsg{Type: tea.KeyF5}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return h.send(msg)
}

func (h *harness) loadTop() {
	h.send(StationsLoadedMsg{View: headerbar.ViewTop, Stations: h.dir.stations})
}

// pumpFavorites feeds the next favorites change to the model.
func (h *harness) pumpFavorites(t *testing.T) favorites.Change {
	t.Helper()
	select {
	case c := <-h.model.favoritesSub.Changed:
		h.send(FavoritesChangedMsg(c))
		return c
	case <-time.After(time.Second):
		t.Fatal("no favorites change")
		return favorites.Change{}
	}
}

func TestStationsLoaded_FillsTopView(t *testing.T) {
	h := newHarness(t)
	h.loadTop()

	list := h.model.List(headerbar.ViewTop)
	assert.False(t, list.Loading())
	assert.Equal(t, 2, list.Len())
}

func TestStationsLoaded_Error(t *testing.T) {
	h := newHarness(t)
	h.send(StationsLoadedMsg{View: headerbar.ViewTop, Err: errors.New("boom")})

	assert.Contains(t, ansi.Strip(h.model.View()), "Failed to load stations: boom")
}

func TestEnter_PlaysSelectedStation(t *testing.T) {
	h := newHarness(t)
	h.loadTop()

	h.key("j")
	h.key("enter")

	s := h.ctrl.Session()
	require.NotNil(t, s.Station)
	assert.Equal(t, "b", s.Station.ID)
	assert.Equal(t, playback.StatusLoading, s.Status)
	assert.Equal(t, "http://b.example/stream", h.sink.LastLoad().URL)
}

func TestSpace_TogglesPause(t *testing.T) {
	h := newHarness(t)
	h.loadTop()
	h.key("enter")
	h.sink.EmitCurrent(player.EventPlaying)
	require.Equal(t, playback.StatusPlaying, h.ctrl.Status())

	h.key(" ")
	assert.Equal(t, playback.StatusPaused, h.ctrl.Status())

	h.key(" ")
	assert.Equal(t, playback.StatusPlaying, h.ctrl.Status())
}

func TestStopKey(t *testing.T) {
	h := newHarness(t)
	h.loadTop()
	h.key("enter")

	h.key("s")

	assert.Equal(t, playback.StatusStopped, h.ctrl.Status())
}

func TestPlaybackChanged_RefreshesSessionAndBar(t *testing.T) {
	h := newHarness(t)
	h.loadTop()
	h.key("enter")
	h.sink.EmitCurrent(player.EventPlaying)

	h.send(PlaybackChangedMsg{Previous: playback.StatusLoading, Current: playback.StatusPlaying})

	assert.Equal(t, playback.StatusPlaying, h.model.Session().Status)
	assert.Contains(t, ansi.Strip(h.model.View()), "Alpha FM")
}

func TestVolumeKeys(t *testing.T) {
	h := newHarness(t)
	h.ctrl.SetVolume(0.5)

	h.key("+")
	assert.InDelta(t, 0.55, h.model.Session().Volume, 1e-9)

	h.key("-")
	h.key("-")
	assert.InDelta(t, 0.45, h.model.Session().Volume, 1e-9)

	h.key("m")
	assert.True(t, h.model.Session().Muted)
	assert.True(t, h.sink.Muted())
}

func TestFavoriteKey_TogglesOptimistically(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.favs.Initialize(context.Background()))
	h.pumpFavorites(t)
	h.loadTop()

	h.key("f")
	c := h.pumpFavorites(t)

	assert.Equal(t, favorites.ReasonAdded, c.Reason)
	assert.True(t, h.model.IsFavorite("a"))
	favList := h.model.List(headerbar.ViewFavorites)
	require.Equal(t, 1, favList.Len())
	assert.Equal(t, "Alpha FM", favList.Items()[0].Name)

	h.favs.Wait()
	assert.Equal(t, []string{"a"}, h.store.Adds())

	h.key("f")
	c = h.pumpFavorites(t)
	assert.Equal(t, favorites.ReasonRemoved, c.Reason)
	assert.False(t, h.model.IsFavorite("a"))
}

func TestFavorites_ResolvesUnknownStations(t *testing.T) {
	h := newHarness(t)
	h.store.Seed("user-1", "b")
	require.NoError(t, h.favs.Initialize(context.Background()))

	var cmd tea.Cmd
	select {
	case c := <-h.model.favoritesSub.Changed:
		cmd = h.send(FavoritesChangedMsg(c))
	case <-time.After(time.Second):
		t.Fatal("no favorites change")
	}

	list := h.model.List(headerbar.ViewFavorites)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, "b", list.Items()[0].Name, "shown by ID until resolved")

	resolve := resolveCmd(h.dir, []string{"b"})
	h.send(resolve())
	list = h.model.List(headerbar.ViewFavorites)
	assert.Equal(t, "Beta Radio", list.Items()[0].Name)
	assert.NotNil(t, cmd)
	assert.Equal(t, [][]string{{"b"}}, h.dir.lookups)
}

func TestFavoritesReady_Error(t *testing.T) {
	h := newHarness(t)
	h.key("tab")
	require.Equal(t, headerbar.ViewFavorites, h.model.CurrentView())

	h.send(FavoritesReadyMsg{Err: errors.New("offline")})

	assert.Contains(t, ansi.Strip(h.model.View()), "Failed to load favorites: offline")
}

func TestFavorites_RetryAfterFailure(t *testing.T) {
	h := newHarness(t)
	h.store.Seed("user-1", "b")
	h.store.SetGetError(errors.New("offline"))

	ready, ok := initFavoritesCmd(h.favs)().(FavoritesReadyMsg)
	require.True(t, ok)
	require.Error(t, ready.Err)
	require.NotNil(t, h.send(ready), "next attempt is scheduled")
	assert.Equal(t, 1, h.model.favFailures)

	h.store.SetGetError(nil)
	cmd := h.send(favoritesRetryMsg{})
	require.NotNil(t, cmd)
	assert.Nil(t, h.send(favoritesRetryMsg{}), "one fetch at a time")

	ready, ok = cmd().(FavoritesReadyMsg)
	require.True(t, ok)
	require.NoError(t, ready.Err)
	h.send(ready)

	list := h.model.List(headerbar.ViewFavorites)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, "b", list.Items()[0].ID)
	assert.Zero(t, h.model.favFailures)
	assert.Nil(t, h.send(favoritesRetryMsg{}), "no fetch once reconciled")
}

func TestFavorites_EnteringViewRetriesAfterFailure(t *testing.T) {
	h := newHarness(t)
	h.send(FavoritesReadyMsg{Err: errors.New("offline")})

	cmd := h.key("tab")
	require.Equal(t, headerbar.ViewFavorites, h.model.CurrentView())
	require.NotNil(t, cmd)

	ready, ok := cmd().(FavoritesReadyMsg)
	require.True(t, ok)
	assert.NoError(t, ready.Err)
}

func TestFavorites_ToggleBeforeSyncKeepsErrorView(t *testing.T) {
	h := newHarness(t)
	h.store.Seed("user-1", "b")
	h.store.SetGetError(errors.New("offline"))
	h.send(initFavoritesCmd(h.favs)())
	h.loadTop()

	h.key("f")
	c := h.pumpFavorites(t)
	require.Equal(t, favorites.ReasonAdded, c.Reason)
	assert.True(t, h.model.IsFavorite("a"))

	h.key("tab")
	require.Equal(t, headerbar.ViewFavorites, h.model.CurrentView())
	assert.Contains(t, ansi.Strip(h.model.View()), "Failed to load favorites: offline")
	assert.Zero(t, h.model.List(headerbar.ViewFavorites).Len())
	h.favs.Wait()
}

func TestGenres_BrowseAndPlay(t *testing.T) {
	h := newHarness(t)
	h.dir.tags = []catalog.Tag{{Name: "jazz", StationCount: 12}, {Name: "rock", StationCount: 3}}

	require.NotNil(t, h.key("f4"))
	require.Equal(t, headerbar.ViewGenres, h.model.CurrentView())
	assert.True(t, h.model.Category(headerbar.ViewGenres).Loading())

	h.send(categoriesCmd(h.dir, headerbar.ViewGenres, 1)())
	assert.Contains(t, ansi.Strip(h.model.View()), "jazz")

	require.NotNil(t, h.key("enter"))
	seq := h.model.seq[headerbar.ViewGenres]
	h.send(browseCmd(h.dir, headerbar.ViewGenres, seq, "jazz")())
	assert.Equal(t, []string{"jazz"}, h.dir.byTag)
	assert.Equal(t, 2, h.model.List(headerbar.ViewGenres).Len())
	assert.Contains(t, ansi.Strip(h.model.View()), "Genres: jazz")

	h.key("enter")
	assert.Equal(t, "http://a.example/stream", h.sink.LastLoad().URL)

	h.key("esc")
	assert.Contains(t, ansi.Strip(h.model.View()), "rock")
	assert.Nil(t, h.key("f4"), "categories are loaded once")
}

func TestCountries_LoadError(t *testing.T) {
	h := newHarness(t)
	h.dir.err = errors.New("boom")
	h.key("f5")

	h.send(categoriesCmd(h.dir, headerbar.ViewCountries, 1)())

	assert.Contains(t, ansi.Strip(h.model.View()), "Failed to load countries: boom")
	assert.False(t, h.model.Category(headerbar.ViewCountries).Loaded())
}

func TestBrowse_BackDropsPendingStations(t *testing.T) {
	h := newHarness(t)
	h.loadTop()
	h.dir.countries = []catalog.Country{{Name: "France", Code: "FR", StationCount: 2}}
	h.key("f5")
	h.send(categoriesCmd(h.dir, headerbar.ViewCountries, 1)())
	h.key("enter")
	late := browseCmd(h.dir, headerbar.ViewCountries, h.model.seq[headerbar.ViewCountries], "France")()

	h.key("esc")
	h.send(late)

	assert.Zero(t, h.model.List(headerbar.ViewCountries).Len())
	assert.False(t, h.model.busy())
	assert.Equal(t, []string{"France"}, h.dir.byCountry)
}

func TestSearch_TypingAndSubmit(t *testing.T) {
	h := newHarness(t)

	h.key("/")
	assert.Equal(t, headerbar.ViewSearch, h.model.CurrentView())
	assert.True(t, h.model.searching)

	for _, r := range "jazz" {
		h.key(string(r))
	}
	cmd := h.key("enter")

	require.NotNil(t, cmd)
	assert.False(t, h.model.searching)
	assert.True(t, h.model.List(headerbar.ViewSearch).Loading())
	assert.Equal(t, 1, h.model.seq[headerbar.ViewSearch])

	// keys typed while searching must not reach the player
	assert.Empty(t, h.sink.Loads())
}

func TestSearch_DropsStaleResults(t *testing.T) {
	h := newHarness(t)
	h.key("/")
	h.key("a")
	h.key("enter")
	h.key("/")
	h.key("b")
	h.key("enter")

	h.send(StationsLoadedMsg{View: headerbar.ViewSearch, Seq: 1, Stations: h.dir.stations[:1]})
	assert.True(t, h.model.List(headerbar.ViewSearch).Loading())

	h.send(StationsLoadedMsg{View: headerbar.ViewSearch, Seq: 2, Stations: h.dir.stations})
	assert.Equal(t, 2, h.model.List(headerbar.ViewSearch).Len())
}

func TestSearch_EscapeCancels(t *testing.T) {
	h := newHarness(t)
	h.key("/")
	h.key("x")

	h.key("esc")

	assert.False(t, h.model.searching)
	assert.Equal(t, 0, h.model.seq[headerbar.ViewSearch])
}

func TestSearchCmd_UsesNameQuery(t *testing.T) {
	dir := &fakeDirectory{}

	msg := searchCmd(dir, headerbar.ViewSearch, 3, searchParams("jazz"))()

	loaded, ok := msg.(StationsLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, 3, loaded.Seq)
	require.Len(t, dir.searches, 1)
	assert.Equal(t, "jazz", dir.searches[0].Name)
	assert.True(t, dir.searches[0].HideBroken)
}

func TestNotice_ClearedBySequence(t *testing.T) {
	h := newHarness(t)
	h.model.setNotice("first")
	h.model.setNotice("second")

	h.send(clearNoticeMsg{Seq: 1})
	assert.Equal(t, "second", h.model.notice)

	h.send(clearNoticeMsg{Seq: 2})
	assert.Empty(t, h.model.notice)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	cmd := h.key("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_HeaderAndHelp(t *testing.T) {
	h := newHarness(t)
	h.loadTop()

	out := ansi.Strip(h.model.View())

	assert.Contains(t, out, "F1 Top")
	assert.Contains(t, out, "Alpha FM")
	assert.Contains(t, out, "quit")
}

func TestWatchPlayback_ClosedSubscription(t *testing.T) {
	h := newHarness(t)
	cmd := h.model.WatchPlayback()
	require.NoError(t, h.ctrl.Close())

	msg := cmd()
	for {
		if _, ok := msg.(PlaybackClosedMsg); ok {
			break
		}
		msg = cmd()
	}
	h.send(msg)
	assert.Nil(t, h.model.WatchPlayback())
}
