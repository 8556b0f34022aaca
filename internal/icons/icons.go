// Package icons selects the glyphs used by the terminal client.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs for one style.
type Icons struct {
	Station    string
	Favorite   string
	Playing    string
	Paused     string
	Loading    string
	Stopped    string
	Error      string
	Volume     string
	VolumeMute string
}

var (
	nerdIcons = Icons{
		Station:    "󰐹 ", // nf-md-radio_tower
		Favorite:   "󰣐",  // nf-md-heart
		Playing:    "󰐊",  // nf-md-play
		Paused:     "󰏤",  // nf-md-pause
		Loading:    "󰔟",  // nf-md-timer_sand
		Stopped:    "󰓛",  // nf-md-stop
		Error:      "󰀦",  // nf-md-alert
		Volume:     "󰕾",  // nf-md-volume_high
		VolumeMute: "󰝟",  // nf-md-volume_mute
	}

	unicodeIcons = Icons{
		Station:    "📻 ",
		Favorite:   "♥",
		Playing:    "▶",
		Paused:     "⏸",
		Loading:    "…",
		Stopped:    "■",
		Error:      "✗",
		Volume:     "🔊",
		VolumeMute: "🔇",
	}

	noneIcons = Icons{
		Station:    "",
		Favorite:   "*",
		Playing:    ">",
		Paused:     "||",
		Loading:    "~",
		Stopped:    "[]",
		Error:      "!",
		Volume:     "vol",
		VolumeMute: "mute",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init selects the icon style. Unknown values fall back to none.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// FormatStation prefixes a station name with the station icon.
func FormatStation(name string) string {
	return current.Station + name
}

// Favorite returns the favorite/heart icon.
func Favorite() string {
	return current.Favorite
}

func Playing() string    { return current.Playing }
func Paused() string     { return current.Paused }
func Loading() string    { return current.Loading }
func Stopped() string    { return current.Stopped }
func Error() string      { return current.Error }
func Volume() string     { return current.Volume }
func VolumeMute() string { return current.VolumeMute }
