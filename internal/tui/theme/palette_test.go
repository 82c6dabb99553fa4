package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Today:       "#777777",
		Drag:        "#888888",
		Error:       "#ff00ff",
	}
}

func TestNewPalette_BlockShades(t *testing.T) {
	palette := NewPalette(darkTheme())
	work := "#55efc4"

	block := palette.Block(work, false)
	if block.Bg != lipgloss.Color(darkenColor(work)) {
		t.Fatalf("Block bg = %q, want %q", block.Bg, darkenColor(work))
	}
	past := palette.Block(work, true)
	if past.Bg != lipgloss.Color(muteColor(work)) {
		t.Fatalf("past Block bg = %q, want %q", past.Bg, muteColor(work))
	}
	if relativeLuminance(string(past.Bg)) >= relativeLuminance(string(block.Bg)) {
		t.Fatalf("past block should be darker than current block on a dark theme")
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := darkTheme()

	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
	if palette.Modal.Backdrop != lipgloss.Color(base.BgSelection) {
		t.Fatalf("Modal.Backdrop = %q, want %q", palette.Modal.Backdrop, base.BgSelection)
	}
}

func TestNewPalette_LightThemeLightensBlocks(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Today:       "#c97b00",
		Drag:        "#c2410c",
	}

	palette := NewPalette(base)
	exercise := "#ff7675"
	block := palette.Block(exercise, false)
	if relativeLuminance(string(block.Bg)) <= relativeLuminance(exercise) {
		t.Fatalf("Block luminance = %f, want greater than the category color", relativeLuminance(string(block.Bg)))
	}
	if block.Fg != lipgloss.Color(base.Fg) {
		t.Fatalf("Block fg = %q, want dark text %q", block.Fg, base.Fg)
	}
}

func TestSwatch(t *testing.T) {
	palette := NewPalette(darkTheme())

	tests := []struct {
		hex  string
		want lipgloss.Color
	}{
		{"#123456", lipgloss.Color("#123456")},
		{"red", palette.Accent},
		{"", palette.Accent},
	}
	for _, tt := range tests {
		if got := palette.Swatch(tt.hex); got != tt.want {
			t.Errorf("Swatch(%q) = %q, want %q", tt.hex, got, tt.want)
		}
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}
