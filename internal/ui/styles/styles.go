// Package styles holds the color palette and shared lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	Primary  = lipgloss.Color("#a78bfa")
	FgBase   = lipgloss.Color("#c0c0c0")
	FgMuted  = lipgloss.Color("#808080")
	FgSubtle = lipgloss.Color("#585858")
	ErrorFg  = lipgloss.Color("#ff5555")

	Base   = lipgloss.NewStyle().Foreground(FgBase)
	Muted  = lipgloss.NewStyle().Foreground(FgMuted)
	Subtle = lipgloss.NewStyle().Foreground(FgSubtle)
	Title  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Error  = lipgloss.NewStyle().Foreground(ErrorFg)

	Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
)

// Subtitle builds the overlay style for subtitle text. The color comes
// from configuration; anything go-colorful cannot parse falls back to
// white.
func Subtitle(hex string) lipgloss.Style {
	if _, err := colorful.Hex(hex); err != nil {
		hex = "#ffffff"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}
