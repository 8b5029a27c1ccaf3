package shell

import "github.com/charmbracelet/lipgloss"

// themeColors maps catalog color tags to terminal colors
var themeColors = map[string]lipgloss.Color{
	"green":   lipgloss.Color("#22c55e"),
	"red":     lipgloss.Color("#ef4444"),
	"purple":  lipgloss.Color("#a855f7"),
	"yellow":  lipgloss.Color("#eab308"),
	"emerald": lipgloss.Color("#10b981"),
	"indigo":  lipgloss.Color("#6366f1"),
}

var dim = lipgloss.Color("#6e7681")

// Styles holds all styles derived from a theme color.
type Styles struct {
	Title   lipgloss.Style
	Card    lipgloss.Style
	Big     lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Option  lipgloss.Style
}

// NewStyles creates styles for a catalog color tag
func NewStyles(color string) Styles {
	primary, ok := themeColors[color]
	if !ok {
		primary = lipgloss.Color("#00ff9f")
	}
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(1, 4).Align(lipgloss.Center),
		Big:     lipgloss.NewStyle().Bold(true),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		Help:    lipgloss.NewStyle().Foreground(dim),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e")),
		Danger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
		Option:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(primary).Padding(0, 2),
	}
}
