package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

const (
	barGlyph   = "█"
	trackGlyph = "░"
	// labelWidth is the left column of every bar chart.
	labelWidth = 22
)

// renderSentimentBars draws one proportion bar per sentiment class, the
// terminal stand-in for the pie chart.
func renderSentimentBars(panel dashboard.SentimentPanel, width int, t Theme) string {
	var b strings.Builder
	b.WriteString(t.Heading.Render(panel.Title))
	b.WriteString("\n")
	if panel.Distribution.Empty() {
		b.WriteString(t.MutedText.Render("No sentiment data for this channel."))
		return b.String()
	}

	barWidth := width - 10 - 20
	if barWidth < 10 {
		barWidth = 10
	}
	counts := panel.Distribution.Values()
	for i, label := range model.SentimentLabels {
		p := panel.Proportions[i]
		filled := int(math.Round(p * float64(barWidth)))
		bar := t.SentimentFg[i].Render(strings.Repeat(barGlyph, filled)) +
			t.BarTrack.Render(strings.Repeat(trackGlyph, barWidth-filled))
		fmt.Fprintf(&b, "%s %s %6.1f%% %s\n",
			padRight(label, 9), bar, p*100,
			t.MutedText.Render("("+dashboard.FormatCount(counts[i])+")"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTrendBars draws one stacked bar per video, scaled to the busiest
// video so bar lengths compare comment volume.
func renderTrendBars(panel dashboard.TrendPanel, width int, t Theme) string {
	var b strings.Builder
	b.WriteString(t.Heading.Render(dashboard.TrendsHeading))
	b.WriteString("\n")
	b.WriteString(t.MutedText.Render(dashboard.TrendsDescription))
	b.WriteString("\n")
	if len(panel.Videos) == 0 {
		b.WriteString(t.MutedText.Render("No videos for this channel."))
		return b.String()
	}

	legend := make([]string, len(model.SentimentLabels))
	for i, label := range model.SentimentLabels {
		legend[i] = t.SentimentFg[i].Render(barGlyph) + " " + label
	}
	b.WriteString(strings.Join(legend, "  "))
	b.WriteString("\n")

	var maxTotal int64
	for _, v := range panel.Videos {
		if tot := v.Total(); tot > maxTotal {
			maxTotal = tot
		}
	}
	barWidth := width - labelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}
	for _, v := range panel.Videos {
		n := scaledWidth(float64(v.Total()), float64(maxTotal), barWidth)
		counts := v.Values()
		parts := splitWidth(counts[:], n)
		var bar strings.Builder
		for i, w := range parts {
			bar.WriteString(t.SentimentFg[i].Render(strings.Repeat(barGlyph, w)))
		}
		fmt.Fprintf(&b, "%s %s%s %s\n",
			padRight(v.VideoTitle, labelWidth),
			bar.String(),
			strings.Repeat(" ", barWidth-n),
			t.MutedText.Render(dashboard.FormatCount(v.Total())))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRankingBars draws the ranking as horizontal bars. Negative and
// missing values get an empty bar.
func renderRankingBars(panel dashboard.RankingPanel, width int, t Theme) string {
	var b strings.Builder
	b.WriteString(t.Heading.Render(panel.Title))
	b.WriteString("\n")

	maxVal := 0.0
	for _, r := range panel.Rows {
		if v := float64(r.Value); model.IsFinite(v) && v > maxVal {
			maxVal = v
		}
	}
	barWidth := width - labelWidth - 16
	if barWidth < 10 {
		barWidth = 10
	}
	for _, r := range panel.Rows {
		v := float64(r.Value)
		n := scaledWidth(v, maxVal, barWidth)
		label := fmt.Sprintf("%2d. %s", r.Rank, r.Influencer.ChannelName)
		fmt.Fprintf(&b, "%s %s%s %s\n",
			padRight(label, labelWidth),
			t.BarFill.Render(strings.Repeat(barGlyph, n)),
			strings.Repeat(" ", barWidth-n),
			dashboard.FormatMetric(panel.Metric, v))
	}
	if s := panel.Stats; s.Count > 0 {
		b.WriteString(t.MutedText.Render(fmt.Sprintf("%d channels · mean %s · σ %s · min %s · max %s",
			s.Count,
			dashboard.FormatMetric(s.Metric, s.Mean),
			dashboard.FormatMetric(s.Metric, s.StdDev),
			dashboard.FormatMetric(s.Metric, s.Min),
			dashboard.FormatMetric(s.Metric, s.Max))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderCards lays the metric cards side by side, wrapping when narrow.
func renderCards(cards []dashboard.Card, width int, t Theme) string {
	rendered := make([]string, 0, len(cards))
	cardWidth := 0
	for _, c := range cards {
		w := runewidth.StringWidth(c.Label)
		if vw := runewidth.StringWidth(c.Value); vw > w {
			w = vw
		}
		if w > cardWidth {
			cardWidth = w
		}
	}
	for _, c := range cards {
		body := t.CardLabel.Render(padRight(c.Label, cardWidth)) + "\n" + t.CardValue.Render(padRight(c.Value, cardWidth))
		rendered = append(rendered, t.Card.Render(body))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if lipgloss.Width(row) > width && width > 0 {
		return lipgloss.JoinVertical(lipgloss.Left, rendered...)
	}
	return row
}

// renderMetricSelector shows the three metrics with the active one marked.
func renderMetricSelector(active model.Metric, t Theme) string {
	parts := make([]string, 0, len(model.Metrics))
	for i, m := range model.Metrics {
		label := fmt.Sprintf("[%d] %s", i+1, m)
		if m == active {
			parts = append(parts, t.PrimaryBold.Render("▸ "+label))
		} else {
			parts = append(parts, t.MutedText.Render("  "+label))
		}
	}
	return "Rank influencers by: " + strings.Join(parts, " ")
}
