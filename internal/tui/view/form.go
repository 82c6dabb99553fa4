package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one rendered form row. Choice rows list their options and
// highlight the selected one; text rows show the input's own view.
type FormField struct {
	Label   string
	Input   string
	Choices []string
	Choice  int
	Focused bool
}

// FormStyles groups styles for form bodies.
type FormStyles struct {
	LabelStyle     lipgloss.Style
	InputStyle     lipgloss.Style
	InputFocused   lipgloss.Style
	ChoiceActive   lipgloss.Style
	ChoiceInactive lipgloss.Style
	BodyStyle      lipgloss.Style
	HintStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
}

// RenderFormBody renders the fields, a hint line and the last error.
func RenderFormBody(fields []FormField, hint, errText string, styles FormStyles) string {
	var b strings.Builder
	sep := styles.BodyStyle.Render(" ")

	for _, f := range fields {
		marker := "  "
		if f.Focused {
			marker = "> "
		}
		b.WriteString(styles.BodyStyle.Render(marker) + styles.LabelStyle.Render(f.Label))

		if f.Choices != nil {
			parts := make([]string, 0, len(f.Choices))
			for i, c := range f.Choices {
				if i == f.Choice {
					parts = append(parts, styles.ChoiceActive.Render(c))
				} else if f.Focused {
					parts = append(parts, styles.ChoiceInactive.Render(c))
				}
			}
			b.WriteString(strings.Join(parts, sep))
		} else {
			style := styles.InputStyle
			if f.Focused {
				style = styles.InputFocused
			}
			b.WriteString(style.Render(f.Input))
		}
		b.WriteString("\n")
	}

	if hint != "" {
		b.WriteString("\n" + styles.HintStyle.Render(hint))
	}
	if errText != "" {
		b.WriteString("\n" + styles.ErrorStyle.Render(errText))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// HelpEntry is one key binding shown in the help modal.
type HelpEntry struct {
	Keys string
	Desc string
}

// RenderHelpBody renders key bindings as two aligned columns.
func RenderHelpBody(entries []HelpEntry, keyStyle, descStyle lipgloss.Style) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, keyStyle.Render(e.Keys)+descStyle.Render(e.Desc))
	}
	return strings.Join(lines, "\n")
}
