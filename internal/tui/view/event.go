package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

// DetailStyles groups styles for detail and confirmation bodies.
type DetailStyles struct {
	BodyStyle  lipgloss.Style
	MetaStyle  lipgloss.Style
	LabelStyle lipgloss.Style
	Swatch     func(hex string) lipgloss.Style
}

// RenderEventDetailBody renders the modal body for an event.
func RenderEventDetailBody(e *calendar.Event, styles DetailStyles) string {
	var b strings.Builder

	swatch := "■"
	if styles.Swatch != nil {
		swatch = styles.Swatch(e.DisplayColor()).Render(swatch)
	}
	b.WriteString(swatch + styles.BodyStyle.Render(" "+e.Title) + "\n\n")

	row := func(label, value string) {
		b.WriteString(styles.LabelStyle.Render(label) + styles.BodyStyle.Render(value) + "\n")
	}
	row("Category", e.Category.Label())
	row("Date", e.Date.Format("Monday, Jan 2, 2006"))
	row("Time", fmt.Sprintf("%s (%s)", FormatRange(e.StartTime, e.EndTime), FormatDuration(e.Duration())))
	if e.Color != "" {
		row("Color", e.Color)
	}
	if e.IsExpanded {
		row("Expanded", "yes")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderConfirmBody renders the question of a delete confirmation.
func RenderConfirmBody(subject, detail, consequence string, styles DetailStyles) string {
	var b strings.Builder
	b.WriteString(styles.BodyStyle.Render(fmt.Sprintf("%q", subject)) + "\n")
	if detail != "" {
		b.WriteString(styles.MetaStyle.Render(detail) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.BodyStyle.Render(consequence))
	return b.String()
}

// EventClipboardText formats an event for pasting elsewhere.
func EventClipboardText(e *calendar.Event) string {
	return fmt.Sprintf("%s %s %s [%s]",
		e.Date.Format("2006-01-02"), FormatRange(e.StartTime, e.EndTime), e.Title, e.Category)
}
