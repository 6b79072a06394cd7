package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the colors and pre-built styles used by the dashboard.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Sentiment, in model.SentimentLabels order
	Sentiment [3]lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	Heading   lipgloss.Style
	Card      lipgloss.Style
	CardLabel lipgloss.Style
	CardValue lipgloss.Style

	// Pre-computed per-row styles, created once instead of per frame
	MutedText   lipgloss.Style
	PrimaryBold lipgloss.Style
	ErrorText   lipgloss.Style
	BarFill     lipgloss.Style
	BarTrack    lipgloss.Style
	SentimentFg [3]lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Border:    ColorBgHighlight,
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     ColorMuted,

		Sentiment: [3]lipgloss.AdaptiveColor{ColorPositive, ColorNeutral, ColorNegative},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Heading = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.CardLabel = r.NewStyle().Foreground(t.Subtext)
	t.CardValue = r.NewStyle().Foreground(ColorText).Bold(true)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.BarFill = r.NewStyle().Foreground(ColorInfo)
	t.BarTrack = r.NewStyle().Foreground(ColorBgHighlight)
	for i, c := range t.Sentiment {
		t.SentimentFg[i] = r.NewStyle().Foreground(c)
	}

	return t
}
