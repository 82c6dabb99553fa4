package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// NoticeLine is one visible notice.
type NoticeLine struct {
	Text  string
	Error bool
}

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW           int
	FooterH          int
	Notices          []NoticeLine
	StatusText       string
	HelpText         string
	PromptLines      []string
	ShowPrompt       bool
	StatusStyle      lipgloss.Style
	ErrorStyle       lipgloss.Style
	HelpStyle        lipgloss.Style
	PromptFocusStyle lipgloss.Style
	Bg               lipgloss.Color
}

// RenderFooter stacks notices, the prompt or status line and the help line,
// keeping the newest notices when space runs out.
func RenderFooter(model FooterModel) string {
	if model.FooterH <= 0 {
		return ""
	}

	var bottom []string
	if model.ShowPrompt {
		bottom = append(bottom, strings.Split(RenderPrompt(model.InnerW, model.PromptFocusStyle, model.PromptLines), "\n")...)
	} else {
		bottom = append(bottom, footerLine(model.InnerW, model.StatusStyle, model.StatusText))
	}
	bottom = append(bottom, footerLine(model.InnerW, model.HelpStyle, model.HelpText))

	room := model.FooterH - len(bottom)
	notices := model.Notices
	if room < 0 {
		room = 0
	}
	if len(notices) > room {
		notices = notices[len(notices)-room:]
	}

	lines := make([]string, 0, model.FooterH)
	for _, n := range notices {
		style := model.StatusStyle
		if n.Error {
			style = model.ErrorStyle
		}
		lines = append(lines, footerLine(model.InnerW, style, n.Text))
	}
	lines = append(lines, bottom...)

	return PlaceBox(model.InnerW, model.FooterH, lipgloss.Bottom, strings.Join(lines, "\n"), model.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
