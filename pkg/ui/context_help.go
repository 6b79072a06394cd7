package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
)

const helpMarkdown = `# Quick Reference

## Channels
| Key | Action |
|-----|--------|
| ↑/k ↓/j | Move selection |
| / | Filter channels (fuzzy) |
| esc | Clear filter |

## Ranking
| Key | Action |
|-----|--------|
| m / M | Next / previous metric |
| 1 2 3 | Engagement Rate, Sentiment Weighted Engagement, Total Score |
| tab | Switch between channels and ranking |

## Data
| Key | Action |
|-----|--------|
| r | Reload both CSV files |
| y | Copy the channel summary |
| e | Export charts for this selection |
| q | Quit |
`

// renderHelpMarkdown renders the help text with glamour, falling back to the
// raw markdown if the renderer cannot be built.
func renderHelpMarkdown(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimSpace(out)
}

// RenderHelpModal renders the help overlay.
func RenderHelpModal(theme Theme, rendered string, width int) string {
	r := theme.Renderer

	modalWidth := 72
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(rendered)
	b.WriteString("\n\n")
	b.WriteString(theme.MutedText.Render(dashboard.Description))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Press any key to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	return modalStyle.Render(b.String())
}
