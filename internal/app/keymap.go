package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings. List navigation lives in stationlist.
type keyMap struct {
	Play      key.Binding
	Toggle    key.Binding
	Stop      key.Binding
	Favorite  key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Mute      key.Binding
	Search    key.Binding
	NextView  key.Binding
	Top       key.Binding
	Favs      key.Binding
	Find      key.Binding
	Genres    key.Binding
	Countries key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		VolUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextView:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Top:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "top")),
		Favs:      key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "favorites")),
		Find:      key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "search")),
		Genres:    key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "genres")),
		Countries: key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "countries")),
		Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Toggle, k.Favorite, k.Search, k.NextView, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Play, k.Toggle, k.Stop},
		{k.Favorite, k.VolUp, k.VolDown, k.Mute},
		{k.Search, k.NextView, k.Top, k.Favs, k.Find, k.Genres, k.Countries, k.Back},
		{k.Help, k.Quit},
	}
}
