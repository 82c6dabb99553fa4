package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox positions content inside a w x h area painted with bg. The
// calendar grid anchors to the top and the notice footer to the bottom.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content, lipgloss.WithWhitespaceBackground(bg))
	return FillBackground(placed, w, h, bg)
}

// FillBackground cuts or extends content to exactly height lines and pads
// every line to width with bg. Lines wider than width are left alone.
func FillBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	fill := lipgloss.NewStyle().Background(bg)
	for i, line := range lines {
		if gap := width - lipgloss.Width(line); gap > 0 {
			lines[i] = line + fill.Render(strings.Repeat(" ", gap))
		}
	}
	return strings.Join(lines, "\n")
}

// Overlay centers box (an event, form or confirmation modal) over the
// calendar screen. Cells of the screen outside the box keep their styling.
func Overlay(screen, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(box, "\n")
	boxW := min(widest(boxLines), width)
	if boxW <= 0 {
		return screen
	}
	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)

	fill := lipgloss.NewStyle().Background(bg)
	seq := backgroundSeq(bg)
	lines := strings.Split(FillBackground(screen, width, height, ""), "\n")
	for i, line := range boxLines {
		row := top + i
		if row >= len(lines) {
			break
		}
		switch w := lipgloss.Width(line); {
		case w > boxW:
			line = ansi.Cut(line, 0, boxW)
		case w < boxW:
			line += fill.Render(strings.Repeat(" ", boxW-w))
		}
		line = keepBackground(line, seq) + ansi.ResetStyle
		lines[row] = ansi.Cut(lines[row], 0, left) + line + ansi.Cut(lines[row], left+boxW, width)
	}
	return strings.Join(lines, "\n")
}

func widest(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

// keepBackground re-applies the modal background after every reset inside
// line, so styled fields do not punch holes into the box.
func keepBackground(line, seq string) string {
	if seq == "" {
		return line
	}
	for _, reset := range []string{ansi.ResetStyle, "\x1b[0m", "\x1b[49m"} {
		line = strings.ReplaceAll(line, reset, reset+seq)
	}
	return line
}

func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}
