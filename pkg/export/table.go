package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// WriteRankingTable writes the ranking as a plain text table.
func WriteRankingTable(w io.Writer, panel dashboard.RankingPanel) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Channel Name", "Subscriber Count", panel.Metric.String()})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range panel.Rows {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.Influencer.ChannelName,
			dashboard.FormatCount(r.Influencer.SubscriberCount),
			dashboard.FormatMetric(panel.Metric, float64(r.Value)),
		})
	}
	if s := panel.Stats; s.Count > 0 {
		table.SetFooter([]string{
			"", fmt.Sprintf("%d channels", s.Count),
			"mean " + dashboard.FormatMetric(s.Metric, s.Mean),
			"max " + dashboard.FormatMetric(s.Metric, s.Max),
		})
	}
	table.Render()
}

// WriteSummary writes the metric cards and the sentiment split as text.
func WriteSummary(w io.Writer, view dashboard.View) {
	fmt.Fprintf(w, "Overview of %s\n\n", view.Selection.Channel)
	for _, c := range view.Cards {
		fmt.Fprintln(w, c.String())
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sentiment", "Comments", "Share"})
	table.SetAutoFormatHeaders(false)
	counts := view.Sentiment.Distribution.Values()
	for i, label := range model.SentimentLabels {
		table.Append([]string{
			label,
			dashboard.FormatCount(counts[i]),
			fmt.Sprintf("%.1f%%", view.Sentiment.Proportions[i]*100),
		})
	}
	table.Render()

	if view.Sentiment.Distribution.Empty() {
		fmt.Fprintln(w, "No sentiment data for this channel.")
	}
}
