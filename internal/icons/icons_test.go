package icons

import "testing"

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  Icons
	}{
		{"nerd style", "nerd", nerdIcons},
		{"unicode style", "unicode", unicodeIcons},
		{"none style", "none", noneIcons},
		{"empty string defaults to none", "", noneIcons},
		{"unknown style defaults to none", "invalid", noneIcons},
		{"case sensitive - NERD defaults to none", "NERD", noneIcons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)
			if current != tt.want {
				t.Errorf("Init(%q) selected the wrong icon set", tt.style)
			}
		})
	}

	Init("none")
}

func TestFormatStation(t *testing.T) {
	Init("none")
	if got := FormatStation("Radio A"); got != "Radio A" {
		t.Errorf("none: FormatStation = %q, want %q", got, "Radio A")
	}

	Init("unicode")
	if got := FormatStation("Radio A"); got != "📻 Radio A" {
		t.Errorf("unicode: FormatStation = %q, want %q", got, "📻 Radio A")
	}

	Init("none")
}

func TestStatusIcons_NoneStyleIsASCII(t *testing.T) {
	Init("none")
	for name, icon := range map[string]string{
		"favorite": Favorite(),
		"playing":  Playing(),
		"paused":   Paused(),
		"loading":  Loading(),
		"stopped":  Stopped(),
		"error":    Error(),
		"volume":   Volume(),
		"mute":     VolumeMute(),
	} {
		if icon == "" {
			t.Errorf("%s icon is empty", name)
		}
		for _, r := range icon {
			if r > 127 {
				t.Errorf("%s icon %q is not ASCII", name, icon)
			}
		}
	}
}
