package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/favorites"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/stationlist"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PlaybackChangedMsg:
		m.session = m.playback.Session()
		m.resize()
		return m, tea.Batch(m.WatchPlayback(), m.startSpinner(), m.notifyPlayback(playback.Change(msg)))

	case notifiedMsg:
		m.notifiedID = msg.ID
		return m, nil

	case PlaybackClosedMsg:
		m.playbackSub = nil
		return m, nil

	case FavoritesChangedMsg:
		if msg.Reason == favorites.ReasonRolledBack {
			m.log.Debug().Str("station", msg.StationID).Msg("favorite change reverted")
		}
		cmd := m.setFavorites(msg.IDs)
		return m, tea.Batch(m.WatchFavorites(), cmd)

	case FavoritesClosedMsg:
		m.favoritesSub = nil
		return m, nil

	case FavoritesReadyMsg:
		return m.handleFavoritesReady(msg)

	case favoritesRetryMsg:
		return m, m.fetchFavorites()

	case StationsLoadedMsg:
		return m.handleStationsLoaded(msg)

	case CategoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg)

	case StationsResolvedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("resolving favorite stations failed")
			cmd := m.setNotice(errmsg.Format(errmsg.OpStationLookup, msg.Err))
			m.rebuildFavorites()
			return m, cmd
		}
		m.remember(msg.Stations)
		m.rebuildFavorites()
		return m, nil

	case StderrMsg:
		m.log.Debug().Str("line", msg.Line).Msg("stderr")
		return m, WatchStderr()

	case clearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.NextView):
		return m, m.setView(m.view.Next())
	case key.Matches(msg, m.keys.Top):
		return m, m.setView(headerbar.ViewTop)
	case key.Matches(msg, m.keys.Favs):
		return m, m.setView(headerbar.ViewFavorites)
	case key.Matches(msg, m.keys.Find):
		return m, m.setView(headerbar.ViewSearch)
	case key.Matches(msg, m.keys.Genres):
		return m, m.setView(headerbar.ViewGenres)
	case key.Matches(msg, m.keys.Countries):
		return m, m.setView(headerbar.ViewCountries)
	case key.Matches(msg, m.keys.Search):
		cmd := m.setView(headerbar.ViewSearch)
		m.searching = true
		return m, tea.Batch(cmd, m.search.Focus())
	case key.Matches(msg, m.keys.Toggle):
		m.playback.TogglePlayPause()
		return m, nil
	case key.Matches(msg, m.keys.Stop):
		m.playback.Stop()
		return m, nil
	case key.Matches(msg, m.keys.VolUp):
		m.playback.AdjustVolume(1)
		m.session = m.playback.Session()
		return m, nil
	case key.Matches(msg, m.keys.VolDown):
		m.playback.AdjustVolume(-1)
		m.session = m.playback.Session()
		return m, nil
	case key.Matches(msg, m.keys.Mute):
		m.playback.ToggleMute()
		m.session = m.playback.Session()
		return m, nil
	}

	if m.view.Browsable() {
		if !m.drilled[m.view] {
			if it, ok := m.cats[m.view].Update(msg); ok {
				return m, m.drill(m.view, it.Name)
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.Back) {
			m.drilled[m.view] = false
			m.seq[m.view]++
			m.lists[m.view].SetItems(nil)
			return m, nil
		}
	}

	res := m.lists[m.view].Update(msg)
	switch res.Action {
	case stationlist.ActionPlay:
		m.remember([]catalog.Station{res.Station})
		m.playback.PlayStation(res.Station)
	case stationlist.ActionToggleFavorite:
		return m, m.toggleFavorite(res.Station)
	case stationlist.ActionNone:
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		query := strings.TrimSpace(m.search.Value())
		if query == "" {
			return m, nil
		}
		return m, m.runSearch(query)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// runSearch starts a name search on the Search view.
func (m *Model) runSearch(query string) tea.Cmd {
	v := headerbar.ViewSearch
	m.seq[v]++
	m.lists[v].SetTitle("Search: " + query)
	m.lists[v].SetLoading()
	return tea.Batch(searchCmd(m.directory, v, m.seq[v], searchParams(query)), m.startSpinner())
}

// drill opens the stations of category name in browsable view v.
func (m *Model) drill(v headerbar.View, name string) tea.Cmd {
	m.drilled[v] = true
	m.seq[v]++
	m.lists[v].SetTitle(v.String() + ": " + name)
	m.lists[v].SetLoading()
	return tea.Batch(browseCmd(m.directory, v, m.seq[v], name), m.startSpinner())
}

// loadCategories fetches the categories of v unless they are loaded or
// on their way.
func (m *Model) loadCategories(v headerbar.View) tea.Cmd {
	cats := &m.cats[v]
	if cats.Loaded() || cats.Loading() {
		return nil
	}
	m.catSeq[v]++
	cats.SetLoading()
	return tea.Batch(categoriesCmd(m.directory, v, m.catSeq[v]), m.startSpinner())
}

func (m Model) handleStationsLoaded(msg StationsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq[msg.View] {
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Stringer("view", msg.View).Msg("station query failed")
		m.lists[msg.View].SetError(errmsg.Format(errmsg.OpStationsLoad, msg.Err))
		return m, nil
	}
	m.remember(msg.Stations)
	m.lists[msg.View].SetItems(msg.Stations)
	if msg.View == headerbar.ViewSearch && len(msg.Stations) == 0 {
		m.lists[msg.View].SetEmptyMessage("No station matches")
	}
	m.rebuildFavorites()
	return m, nil
}

func (m Model) handleCategoriesLoaded(msg CategoriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.catSeq[msg.View] {
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Stringer("view", msg.View).Msg("category query failed")
		op := errmsg.OpTagsLoad
		if msg.View == headerbar.ViewCountries {
			op = errmsg.OpCountriesLoad
		}
		m.cats[msg.View].SetError(errmsg.Format(op, msg.Err))
		return m, nil
	}
	m.cats[msg.View].SetItems(msg.Items)
	return m, nil
}

// handleFavoritesReady records the outcome of a fetch and schedules the
// next attempt after a failure.
func (m Model) handleFavoritesReady(msg FavoritesReadyMsg) (tea.Model, tea.Cmd) {
	m.favFetching = false
	if msg.Err != nil {
		m.favFailures++
		m.log.Warn().Err(msg.Err).Int("attempt", m.favFailures).Msg("favorites initialization failed")
		m.lists[headerbar.ViewFavorites].SetError(errmsg.Format(errmsg.OpFavoritesLoad, msg.Err) + ", retrying")
		return m, favoritesRetryCmd(m.favFailures)
	}
	m.favFailures = 0
	return m, m.setFavorites(m.favorites.IDs())
}

// fetchFavorites starts a favorites fetch unless one is running or the
// list is already reconciled.
func (m *Model) fetchFavorites() tea.Cmd {
	if m.favSynced || m.favFetching {
		return nil
	}
	m.favFetching = true
	return initFavoritesCmd(m.favorites)
}

func (m *Model) toggleFavorite(st catalog.Station) tea.Cmd {
	m.remember([]catalog.Station{st})
	op := errmsg.OpFavoriteAdd
	if m.favSet[st.ID] {
		op = errmsg.OpFavoriteRemove
	}
	if _, err := m.favorites.Toggle(st.ID); err != nil {
		m.log.Warn().Err(err).Str("station", st.ID).Msg("favorite toggle failed")
		return m.setNotice(errmsg.FormatWith(op, st.Name, err))
	}
	return nil
}

// setFavorites records ids and fetches details for stations never listed.
func (m *Model) setFavorites(ids []string) tea.Cmd {
	m.favIDs = ids
	m.favSynced = m.favorites.List().Reconciled
	m.favSet = make(map[string]bool, len(ids))
	var missing []string
	for _, id := range ids {
		m.favSet[id] = true
		if _, ok := m.known[id]; !ok && !m.requested[id] {
			m.requested[id] = true
			missing = append(missing, id)
		}
	}
	m.rebuildFavorites()
	return resolveCmd(m.directory, missing)
}

// rebuildFavorites fills the Favorites view from the known stations. IDs
// the directory does not know are shown by ID. Until the list is
// reconciled the view keeps its loading or error state.
func (m *Model) rebuildFavorites() {
	if !m.favSynced {
		return
	}
	list := &m.lists[headerbar.ViewFavorites]
	items := make([]catalog.Station, 0, len(m.favIDs))
	for _, id := range m.favIDs {
		st, ok := m.known[id]
		if !ok {
			st = catalog.Station{ID: id, Name: id}
		}
		items = append(items, st)
	}
	list.SetItems(items)
}

func (m *Model) remember(stations []catalog.Station) {
	for _, st := range stations {
		if st.ID != "" {
			m.known[st.ID] = st
		}
	}
}

// setView switches to v and returns the command loading what v shows
// first.
func (m *Model) setView(v headerbar.View) tea.Cmd {
	m.lists[m.view].SetFocused(false)
	m.cats[m.view].SetFocused(false)
	m.view = v
	m.lists[v].SetFocused(true)
	m.cats[v].SetFocused(true)
	m.resize()

	switch {
	case v.Browsable():
		return m.loadCategories(v)
	case v == headerbar.ViewFavorites && m.favFailures > 0:
		return m.fetchFavorites()
	}
	return nil
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	return clearNoticeCmd(m.noticeSeq)
}

func (m Model) busy() bool {
	if m.session.Status == playback.StatusLoading {
		return true
	}
	for _, v := range headerbar.Views {
		if v != headerbar.ViewFavorites && m.lists[v].Loading() {
			return true
		}
		if v.Browsable() && m.cats[v].Loading() {
			return true
		}
	}
	return false
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.busy() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}
