package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Adaptive colors for light and dark terminals. Light mode colors are tuned
// for a contrast ratio of at least 4.5:1 on white.
var (
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Sentiment: the same blue / pale / red diverging scale as the charts.
	ColorPositive = lipgloss.AdaptiveColor{Light: "#2166AC", Dark: "#4393C3"}
	ColorNeutral  = lipgloss.AdaptiveColor{Light: "#6B8BA4", Dark: "#D1E5F0"}
	ColorNegative = lipgloss.AdaptiveColor{Light: "#B2182B", Dark: "#F4A582"}
)

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// panelStyle picks the border for a pane by focus.
func panelStyle(focused bool) lipgloss.Style {
	if focused {
		return FocusedPanelStyle
	}
	return PanelStyle
}
