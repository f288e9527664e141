package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// Card is one headline metric.
type Card struct {
	Label string
	Value string
	Hint  string
	Color lipgloss.Color
}

// MetricsPanel displays a row of headline metric cards.
type MetricsPanel struct {
	width int
	cards []Card
}

// NewMetricsPanel creates a new metrics panel component.
func NewMetricsPanel() *MetricsPanel {
	return &MetricsPanel{}
}

// SetCards updates the displayed cards.
func (p *MetricsPanel) SetCards(cards []Card) {
	p.cards = cards
}

// SetWidth sets the width of the panel.
func (p *MetricsPanel) SetWidth(width int) {
	p.width = width
}

// View renders the cards side by side.
func (p *MetricsPanel) View() string {
	if len(p.cards) == 0 {
		return ""
	}

	// Each card has border (2 chars) + padding (2 chars) overhead
	cardWidth := max((p.width-4*len(p.cards))/len(p.cards), 12)

	rendered := make([]string, len(p.cards))
	for i, c := range p.cards {
		rendered[i] = p.renderCard(c, cardWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (p *MetricsPanel) renderCard(c Card, width int) string {
	labelStyle := styles.PanelLabelStyle.Width(width).Align(lipgloss.Center)
	valueStyle := styles.PanelValueStyle.Width(width).Align(lipgloss.Center)
	if c.Color != "" {
		valueStyle = valueStyle.Foreground(c.Color)
	} else {
		valueStyle = valueStyle.Foreground(styles.ColorAccent)
	}

	lines := []string{
		labelStyle.Render(styles.Truncate(c.Label, width)),
		valueStyle.Render(styles.Truncate(c.Value, width)),
	}
	if c.Hint != "" {
		lines = append(lines, styles.MutedStyle.Width(width).Align(lipgloss.Center).Render(styles.Truncate(c.Hint, width)))
	}

	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
