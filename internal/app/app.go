package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/favorites"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/categorylist"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/stationlist"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Deps are the services the UI drives.
type Deps struct {
	Playback  Playback
	Favorites Favorites
	Directory Directory
	Logger    zerolog.Logger

	// Notifier is optional; nil disables desktop notifications.
	Notifier      notify.Notifier
	NotifyTimeout time.Duration
}

// Model is the root application model containing all state.
type Model struct {
	playback  Playback
	favorites Favorites
	directory Directory
	log       zerolog.Logger

	playbackSub  *playback.Subscription
	favoritesSub *favorites.Subscription

	view      headerbar.View
	lists     [headerbar.NumViews]stationlist.Model
	seq       [headerbar.NumViews]int
	searching bool

	// Browsable views show cats until a category is picked, then lists.
	cats    [headerbar.NumViews]categorylist.Model
	catSeq  [headerbar.NumViews]int
	drilled [headerbar.NumViews]bool

	search    textinput.Model
	spinner   spinner.Model
	spinning  bool
	help      help.Model
	keys      keyMap

	session   playback.Session
	favIDs    []string
	favSet    map[string]bool
	known     map[string]catalog.Station
	requested map[string]bool

	// The Favorites view lists favIDs only once the synchronizer has
	// reconciled with the remote store.
	favSynced   bool
	favFetching bool
	favFailures int

	notice    string
	noticeSeq int

	notifier      notify.Notifier
	notifyTimeout int32
	notifiedID    uint32

	width, height int
}

// New creates the application model and subscribes to both services.
func New(d Deps) Model {
	ti := textinput.New()
	ti.Placeholder = "Station name..."
	ti.Prompt = "/ "
	ti.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.T().S().Warning

	top := stationlist.New("Top stations")
	favs := stationlist.New("Favorites")
	favs.SetEmptyMessage("No favorites yet, press f on a station")
	found := stationlist.New("Search")
	found.SetEmptyMessage("Press / to search the directory")
	genres := stationlist.New("Genre")
	genres.SetEmptyMessage("No station in this genre")
	countries := stationlist.New("Country")
	countries.SetEmptyMessage("No station in this country")
	top.SetLoading()
	favs.SetLoading()
	top.SetFocused(true)

	var cats [headerbar.NumViews]categorylist.Model
	cats[headerbar.ViewGenres] = categorylist.New("Genres", "genre")
	cats[headerbar.ViewCountries] = categorylist.New("Countries", "country")

	return Model{
		playback:      d.Playback,
		favorites:     d.Favorites,
		directory:     d.Directory,
		log:           d.Logger,
		playbackSub:   d.Playback.Subscribe(),
		favoritesSub:  d.Favorites.Subscribe(),
		view:          headerbar.ViewTop,
		lists:         [headerbar.NumViews]stationlist.Model{top, favs, found, genres, countries},
		cats:          cats,
		search:        ti,
		spinner:       sp,
		spinning:      true,
		help:          help.New(),
		keys:          defaultKeyMap(),
		session:       d.Playback.Session(),
		favSet:        map[string]bool{},
		known:         map[string]catalog.Station{},
		requested:     map[string]bool{},
		favFetching:   true,
		notifier:      d.Notifier,
		notifyTimeout: int32(d.NotifyTimeout / time.Millisecond),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.WatchPlayback(),
		m.WatchFavorites(),
		WatchStderr(),
		initFavoritesCmd(m.favorites),
		searchCmd(m.directory, headerbar.ViewTop, m.seq[headerbar.ViewTop], topParams()),
		m.spinner.Tick,
	)
}

// CurrentView returns the active view.
func (m Model) CurrentView() headerbar.View {
	return m.view
}

// Session returns the last playback snapshot the UI rendered.
func (m Model) Session() playback.Session {
	return m.session
}

// IsFavorite reports whether id is in the last favorites list received.
func (m Model) IsFavorite(id string) bool {
	return m.favSet[id]
}

// Category returns the category list of a browsable view.
func (m Model) Category(v headerbar.View) categorylist.Model {
	return m.cats[v]
}

// List returns the station list of view.
func (m Model) List(v headerbar.View) stationlist.Model {
	return m.lists[v]
}
