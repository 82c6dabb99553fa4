package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles of a modal box.
type ModalStyles struct {
	Frame        lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
	Footer       lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
}

// Action is a key the modal answers to, shown as "[Key] Label".
type Action struct {
	Key   string
	Label string
}

func (a Action) String() string {
	return "[" + a.Key + "] " + a.Label
}

// Modal is the content of an event detail, form, confirmation or help box.
// The first action is the default one and is highlighted.
type Modal struct {
	Title   string
	Body    string
	Actions []Action
}

// Render draws the modal with its title on top and its actions below.
func (m Modal) Render(styles ModalStyles) string {
	var b strings.Builder
	b.WriteString(styles.Header.Render(styles.Title.Render(m.Title)))
	if m.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Body)
	}
	if len(m.Actions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.Footer.Render(m.actions(styles)))
	}
	return styles.Frame.Render(b.String())
}

func (m Modal) actions(styles ModalStyles) string {
	parts := make([]string, len(m.Actions))
	for i, a := range m.Actions {
		style := styles.Button
		if i == 0 {
			style = styles.ButtonActive
		}
		parts[i] = style.Render(a.String())
	}
	return strings.Join(parts, styles.Body.Render(" "))
}
