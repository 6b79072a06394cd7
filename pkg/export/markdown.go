package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// GenerateMarkdown renders the dashboard view as a markdown report.
func GenerateMarkdown(view dashboard.View, generated time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", dashboard.Title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", generated.Format(time.RFC1123)))
	sb.WriteString(dashboard.Description + "\n\n")

	sb.WriteString(fmt.Sprintf("## Overview of %s\n\n", escapeMarkdown(view.Selection.Channel)))
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	for _, c := range view.Cards {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", c.Label, c.Value))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(view.Sentiment.Title)))
	if view.Sentiment.Distribution.Empty() {
		sb.WriteString("*No sentiment data for this channel.*\n\n")
	} else {
		sb.WriteString("| Sentiment | Comments | Share |\n|-----------|----------|-------|\n")
		counts := view.Sentiment.Distribution.Values()
		for i, label := range model.SentimentLabels {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f%% |\n",
				label, dashboard.FormatCount(counts[i]), view.Sentiment.Proportions[i]*100))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(view.Trends.Title)))
	sb.WriteString(dashboard.TrendsDescription + "\n\n")
	if len(view.Trends.Videos) == 0 {
		sb.WriteString("*No videos for this channel.*\n\n")
	} else {
		sb.WriteString("| Video Title | Positive | Neutral | Negative |\n|-------------|----------|---------|----------|\n")
		for _, v := range view.Trends.Videos {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n",
				escapeMarkdown(v.VideoTitle), v.Positive, v.Neutral, v.Negative))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(RankingMarkdown(view.Ranking))
	sb.WriteString("\n---\n\n" + dashboard.Footer + "\n")
	return sb.String()
}

// RankingMarkdown renders the ranking panel as a markdown section.
func RankingMarkdown(panel dashboard.RankingPanel) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(panel.Title)))
	sb.WriteString(fmt.Sprintf("| Rank | Channel Name | Subscriber Count | %s |\n", panel.Metric))
	sb.WriteString("|------|--------------|------------------|------|\n")
	for _, r := range panel.Rows {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
			r.Rank,
			escapeMarkdown(r.Influencer.ChannelName),
			dashboard.FormatCount(r.Influencer.SubscriberCount),
			dashboard.FormatMetric(panel.Metric, float64(r.Value))))
	}
	if s := panel.Stats; s.Count > 0 {
		sb.WriteString(fmt.Sprintf("\n*%d channels, mean %s, stddev %s, min %s, max %s.*\n",
			s.Count,
			dashboard.FormatMetric(s.Metric, s.Mean),
			dashboard.FormatMetric(s.Metric, s.StdDev),
			dashboard.FormatMetric(s.Metric, s.Min),
			dashboard.FormatMetric(s.Metric, s.Max)))
	}

	return sb.String()
}

// RenderTerminal renders markdown for display in a terminal of the given width.
func RenderTerminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(md)
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ", "\r", "").Replace(s)
}
