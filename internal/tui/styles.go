// Package tui provides the terminal calendar client for dayplan.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/dayplan/internal/tui/theme"
	"github.com/javiermolinar/dayplan/internal/tui/view"
)

// Default column width - will be recalculated dynamically.
const defaultColWidth = 18

// timeColWidth is the width of the slot label column.
const timeColWidth = 6

// sidebarWidth is the width of the goals and tasks panel.
const sidebarWidth = 28

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color

	TitleStyle lipgloss.Style

	// Column headers
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style

	TimeColumnStyle lipgloss.Style

	// Grid cells
	EmptyCellStyle    lipgloss.Style
	OtherMonthStyle   lipgloss.Style
	CursorStyle       lipgloss.Style
	DragPreviewStyle  lipgloss.Style
	TodayCellStyle    lipgloss.Style
	MoreStyle         lipgloss.Style
	YearCellStyle     lipgloss.Style
	YearCountStyle    lipgloss.Style
	SidebarStyle      lipgloss.Style
	SidebarFocusStyle lipgloss.Style
	SidebarTitleStyle lipgloss.Style
	SidebarItemStyle  lipgloss.Style
	SidebarSelStyle   lipgloss.Style

	// Footer
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	StatusStyle        lipgloss.Style
	ErrorStyle         lipgloss.Style
	HelpStyle          lipgloss.Style
	DragBannerStyle    lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalInputStyle        lipgloss.Style
	ModalInputFocusedStyle lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalErrorStyle        lipgloss.Style
	ChoiceActiveStyle      lipgloss.Style
	ChoiceInactiveStyle    lipgloss.Style

	TableBorderStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{palette: palette}

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(palette.Today)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Width(timeColWidth)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.OtherMonthStyle = s.EmptyCellStyle.
		Faint(true)

	s.CursorStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.DragPreviewStyle = lipgloss.NewStyle().
		Background(palette.Drag).
		Foreground(palette.TextOnDrag).
		Bold(true)

	s.TodayCellStyle = s.EmptyCellStyle.
		Foreground(palette.Today).
		Bold(true)

	s.MoreStyle = s.EmptyCellStyle.
		Italic(true)

	s.YearCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg).
		Align(lipgloss.Center)

	s.YearCountStyle = s.YearCellStyle.
		Foreground(s.colorAccent).
		Bold(true)

	s.SidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		BorderBackground(s.colorBg).
		Background(s.colorBg).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.SidebarFocusStyle = s.SidebarStyle.
		BorderForeground(s.colorAccent)

	s.SidebarTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.SidebarItemStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.SidebarSelStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection).
		Bold(true)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		BorderBackground(s.colorBg).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.PromptFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true).
		Padding(0, 1)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Bold(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.DragBannerStyle = lipgloss.NewStyle().
		Background(palette.Drag).
		Foreground(palette.TextOnDrag).
		Bold(true).
		Padding(0, 1)

	modal := palette.Modal
	modalBg := modal.Bg
	s.ModalBgColor = modalBg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modalBg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(60).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modalBg).
		Padding(0, 1)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(modalBg)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modalBg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modalBg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modalBg)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Width(10).
		Background(modalBg)

	s.ModalInputStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modalBg).
		Padding(0, 1)

	s.ModalInputFocusedStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Padding(0, 1)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modalBg)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modalBg)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 2)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Padding(0, 2).
		Underline(true)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modalBg)

	s.ModalErrorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(modalBg).
		Bold(true)

	s.ChoiceActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Bold(true).
		Padding(0, 1)

	s.ChoiceInactiveStyle = lipgloss.NewStyle().
		Background(modalBg).
		Foreground(modal.Muted).
		Padding(0, 1)

	s.TableBorderStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingTop(1).
		PaddingLeft(2).
		PaddingRight(2)

	return s
}

// EventStyle returns the block style for an event of the given color.
// Past events are drawn muted.
func (s *Styles) EventStyle(hex string, past bool) lipgloss.Style {
	block := s.palette.Block(hex, past)
	style := lipgloss.NewStyle().
		Background(block.Bg).
		Foreground(block.Fg)
	if !past {
		style = style.Bold(true)
	}
	return style
}

// SwatchStyle returns a foreground style for a goal or task color marker.
func (s *Styles) SwatchStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.palette.Swatch(hex)).
		Background(s.colorBg)
}

// ModalStyles returns the modal frame styles.
func (s *Styles) ModalStyles() view.ModalStyles {
	return view.ModalStyles{
		Frame:        s.ModalStyle,
		Header:       s.ModalHeaderStyle,
		Title:        s.ModalTitleStyle,
		Body:         s.ModalBodyStyle,
		Footer:       s.ModalFooterStyle,
		Button:       s.ModalButtonStyle,
		ButtonActive: s.ModalButtonActiveStyle,
	}
}
