package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Common border styles
var (
	BorderNormal  = lipgloss.NormalBorder()
	BorderRounded = lipgloss.RoundedBorder()
)

// Panel styles
var (
	// PanelStyle is the base style for metric panels
	PanelStyle = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PanelLabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PanelValueStyle = lipgloss.NewStyle().
			Bold(true)
)

// Table styles
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorSelectedFg).
				Background(ColorSelectedBg)

	TableCellStyle = lipgloss.NewStyle()

	TableRowAltStyle = lipgloss.NewStyle().
				Foreground(ColorText)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Border(BorderNormal).
			BorderForeground(ColorBorder).
			BorderTop(true).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false)

	StatusTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	StatusTimeStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Message styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorAccent)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Width(18)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HelpDialogStyle = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorSelectedFg).
			Background(ColorSelectedBg).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// Truncate shortens text to maxWidth display cells, ending with an ellipsis.
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

// Pad right-fills text with spaces to exactly width display cells.
func Pad(text string, width int) string {
	return runewidth.FillRight(Truncate(text, width), width)
}

// PadLeft left-fills text with spaces to exactly width display cells.
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(Truncate(text, width), width)
}
