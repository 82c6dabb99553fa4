package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Today: bold yellow so the current day stands out
	colorToday = color.New(color.FgYellow, color.Bold)

	// IDs: cyan, they are what the user copies into the next command
	colorID = color.New(color.FgCyan)

	// Success confirmations: green
	colorOK = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// categoryColor maps each category to the closest terminal color.
func categoryColor(c calendar.Category) *color.Color {
	switch c {
	case calendar.CategoryExercise:
		return color.New(color.FgRed)
	case calendar.CategoryEating:
		return color.New(color.FgBlue)
	case calendar.CategoryWork:
		return color.New(color.FgGreen)
	case calendar.CategoryRelax:
		return color.New(color.FgMagenta)
	case calendar.CategoryFamily:
		return color.New(color.FgYellow)
	case calendar.CategorySocial:
		return color.New(color.FgHiMagenta)
	default:
		return color.New(color.FgWhite)
	}
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatToday(s string) string {
	return colorToday.Sprint(s)
}

func formatID(s string) string {
	return colorID.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
