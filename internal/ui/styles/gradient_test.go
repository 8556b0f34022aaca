package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

func TestGradient_KeepsText(t *testing.T) {
	out := Gradient("airwaves", "#a78bfa", "#f472b6", true)
	if got := ansi.Strip(out); got != "airwaves" {
		t.Errorf("stripped gradient = %q, want %q", got, "airwaves")
	}
}

func TestGradient_Empty(t *testing.T) {
	if got := Gradient("", "#000000", "#ffffff", false); got != "" {
		t.Errorf("Gradient(\"\") = %q, want empty", got)
	}
}

func TestGradient_WideGraphemes(t *testing.T) {
	text := "📻 ラジオ"
	out := Gradient(text, "#000000", "#ffffff", false)
	if got := ansi.Strip(out); got != text {
		t.Errorf("stripped gradient = %q, want %q", got, text)
	}
	if lipgloss.Width(out) != lipgloss.Width(text) {
		t.Errorf("width changed: %d, want %d", lipgloss.Width(out), lipgloss.Width(text))
	}
}

func TestBlend_Endpoints(t *testing.T) {
	colors := blend(5, "#000000", "#ffffff")
	if len(colors) != 5 {
		t.Fatalf("len = %d, want 5", len(colors))
	}
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}
	if d := colors[0].DistanceRgb(black); d > 0.01 {
		t.Errorf("first = %s, want black", colors[0].Hex())
	}
	if d := colors[4].DistanceRgb(white); d > 0.01 {
		t.Errorf("last = %s, want white", colors[4].Hex())
	}
}

func TestToColorful_ANSIFallsBackToGray(t *testing.T) {
	got := toColorful("240").Hex()
	if got != "#808080" {
		t.Errorf("toColorful(240) = %s, want #808080", got)
	}
}
