package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// ChannelDelegate renders one channel per line: name on the left, the
// engagement rate right-aligned.
type ChannelDelegate struct {
	Theme Theme
}

func (d ChannelDelegate) Height() int {
	return 1
}

func (d ChannelDelegate) Spacing() int {
	return 0
}

func (d ChannelDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d ChannelDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(ChannelItem)
	if !ok {
		return
	}

	t := d.Theme
	width := m.Width()
	if width <= 0 {
		width = 30
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width--

	rate := dashboard.FormatMetric(model.MetricEngagementRate, i.Influencer.EngagementRate)
	rateWidth := runewidth.StringWidth(rate)
	nameWidth := width - rateWidth - 3
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := padRight(i.Influencer.ChannelName, nameWidth)

	if index == m.Index() {
		row := fmt.Sprintf("%s %s", name, rate)
		fmt.Fprint(w, t.Selected.Render(row))
		return
	}
	fmt.Fprintf(w, "  %s %s", t.Base.Render(name), t.MutedText.Render(rate))
}
