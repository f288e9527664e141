package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// HelpSection is a titled group of bindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpText represents the help component
type HelpText struct {
	width    int
	height   int
	sections []HelpSection
}

// NewHelp creates a new help component
func NewHelp(sections ...HelpSection) *HelpText {
	return &HelpText{sections: sections}
}

// SetSize sets the size of the help component
func (h *HelpText) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help screen
func (h *HelpText) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, sec := range h.sections {
		b.WriteString(styles.SectionStyle.UnsetMarginBottom().Render(sec.Title))
		b.WriteString("\n")
		for _, binding := range sec.Bindings {
			if !binding.Enabled() {
				continue
			}
			help := binding.Help()
			b.WriteString(styles.HelpKeyStyle.Render(help.Key))
			b.WriteString(styles.HelpDescStyle.Render(help.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	dialog := styles.HelpDialogStyle.Render(strings.TrimRight(b.String(), "\n"))
	if h.width > 0 {
		dialog = lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, dialog)
	}
	return dialog
}

// ShortHelp returns a brief help text for the bottom of the screen
func ShortHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.HelpStyle.Render(strings.Join(parts, " • "))
}
