// Package ui implements the interactive terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sentiboard/pkg/analysis"
	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/export"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/metrics"
	"github.com/vanderheijden86/sentiboard/pkg/model"
	"github.com/vanderheijden86/sentiboard/pkg/watcher"
)

// Layout constants
const (
	SidebarWidth    = 34
	MinMainWidth    = 50
	DefaultWidth    = 120
	DefaultHeight   = 40
	DefaultExportTo = "sentiboard-export"
)

// focus represents which pane has keyboard focus
type focus int

const (
	focusChannels focus = iota
	focusDetail
	focusRanking
	focusHelp
)

func (f focus) String() string {
	switch f {
	case focusChannels:
		return "channels"
	case focusDetail:
		return "detail"
	case focusRanking:
		return "ranking"
	case focusHelp:
		return "help"
	default:
		return "unknown"
	}
}

// FileChangedMsg is sent when either CSV changes on disk
type FileChangedMsg struct{}

// ReloadedMsg carries the result of a background reload.
type ReloadedMsg struct {
	Dataset *loader.Dataset
	Err     error
	Took    time.Duration
}

// ExportDoneMsg carries the result of an export started with `e`.
type ExportDoneMsg struct {
	Result export.Result
	Err    error
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd reloads the dataset through cache. force drops the cached copy
// even when the files look unchanged.
func ReloadCmd(cache *loader.Cache, force bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if force {
			cache.Invalidate()
		}
		ds, err := cache.Get(context.Background())
		return ReloadedMsg{Dataset: ds, Err: err, Took: time.Since(start)}
	}
}

// ExportCmd writes the charts for view in the background.
func ExportCmd(ds *loader.Dataset, view dashboard.View, opts export.Options) tea.Cmd {
	return func() tea.Msg {
		res, err := export.ExportView(ds, view, opts)
		return ExportDoneMsg{Result: res, Err: err}
	}
}

// Options configures NewModel.
type Options struct {
	// Cache reloads the dataset; nil disables reloading.
	Cache *loader.Cache
	// Watcher triggers reloads on file changes; nil disables live reload.
	Watcher   *watcher.Watcher
	Selection dashboard.Selection
	Export    export.Options
}

// Model is the main Bubble Tea model for the dashboard
type Model struct {
	// Data
	ds    *loader.Dataset
	view  dashboard.View
	sel   dashboard.Selection
	cache *loader.Cache

	// Components
	channels list.Model
	detail   viewport.Model
	ranking  table.Model
	help     help.Model
	keys     keyMap
	theme    Theme

	// State
	focused       focus
	prevFocus     focus
	helpRendered  string
	width         int
	height        int
	statusMsg     string
	statusIsError bool
	exporting     bool

	watcher    *watcher.Watcher
	exportOpts export.Options
	copyText   func(string) error
}

// NewModel builds the dashboard for ds. It fails when the initial selection
// cannot be built, for example on an empty influencer table.
func NewModel(ds *loader.Dataset, opts Options) (Model, error) {
	view, err := dashboard.Build(ds, opts.Selection)
	if err != nil {
		return Model{}, err
	}

	theme := DefaultTheme(lipgloss.DefaultRenderer())

	l := list.New(channelItems(ds.Influencers), ChannelDelegate{Theme: theme}, SidebarWidth-2, DefaultHeight-5)
	l.Title = "Channels"
	l.Styles.Title = theme.Header
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	tbl := table.New(
		table.WithColumns(rankingColumns(view.Ranking.Metric, DefaultWidth-SidebarWidth-2)),
		table.WithHeight(analysis.DefaultTopN+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(theme.Primary)
	tbl.SetStyles(styles)

	exportOpts := opts.Export
	if exportOpts.Dir == "" {
		exportOpts.Dir = DefaultExportTo
	}

	m := Model{
		ds:         ds,
		view:       view,
		sel:        view.Selection,
		cache:      opts.Cache,
		channels:   l,
		detail:     viewport.New(DefaultWidth-SidebarWidth-2, DefaultHeight/2),
		ranking:    tbl,
		help:       help.New(),
		keys:       defaultKeyMap(),
		theme:      theme,
		focused:    focusChannels,
		width:      DefaultWidth,
		height:     DefaultHeight,
		watcher:    opts.Watcher,
		exportOpts: exportOpts,
		copyText:   clipboard.WriteAll,
	}
	m.selectChannelInList(view.Selection.Channel)
	m.resize()
	m.refresh()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case FileChangedMsg:
		debug.Log("ui: file change detected")
		if m.cache != nil {
			m.setStatus("Data changed on disk, reloading…", false)
			cmds = append(cmds, ReloadCmd(m.cache, false))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case ReloadedMsg:
		return m.applyReload(msg)

	case ExportDoneMsg:
		m.exporting = false
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("❌ Export failed: %v", msg.Err), true)
			return m, nil
		}
		status := fmt.Sprintf("✓ Exported %d files to %s", len(msg.Result.Files), m.exportOpts.Dir)
		if n := len(msg.Result.Skipped); n > 0 {
			status += fmt.Sprintf(" (%d empty charts skipped)", n)
		}
		m.setStatus(status, false)
		return m, nil

	case tea.KeyMsg:
		if m.focused == focusHelp {
			m.focused = m.prevFocus
			return m, nil
		}
		if m.channels.FilterState() == list.Filtering {
			m.channels, cmd = m.channels.Update(msg)
			m.syncSelectionFromList()
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.prevFocus = m.focused
			m.focused = focusHelp
			if m.helpRendered == "" {
				m.helpRendered = renderHelpMarkdown(64)
			}
			return m, nil
		case key.Matches(msg, m.keys.Focus):
			m.cycleFocus()
			return m, nil
		case key.Matches(msg, m.keys.NextMetric):
			m.setMetric(m.sel.Metric.Next())
			return m, nil
		case key.Matches(msg, m.keys.PrevMetric):
			m.setMetric(m.sel.Metric.Prev())
			return m, nil
		case key.Matches(msg, m.keys.Metric1):
			m.setMetric(model.MetricEngagementRate)
			return m, nil
		case key.Matches(msg, m.keys.Metric2):
			m.setMetric(model.MetricSentimentWeightedEngagement)
			return m, nil
		case key.Matches(msg, m.keys.Metric3):
			m.setMetric(model.MetricTotalScore)
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if m.cache == nil {
				m.setStatus("Reload unavailable", true)
				return m, nil
			}
			m.setStatus("Reloading…", false)
			return m, ReloadCmd(m.cache, true)
		case key.Matches(msg, m.keys.Copy):
			m.copySummary()
			return m, nil
		case key.Matches(msg, m.keys.Export):
			if m.exporting {
				return m, nil
			}
			m.exporting = true
			m.setStatus("Exporting charts…", false)
			return m, ExportCmd(m.ds, m.view, m.exportOpts)
		}

		switch m.focused {
		case focusChannels:
			m.channels, cmd = m.channels.Update(msg)
			m.syncSelectionFromList()
		case focusDetail:
			m.detail, cmd = m.detail.Update(msg)
		case focusRanking:
			if msg.String() == "enter" {
				m.jumpToRankedChannel()
				return m, nil
			}
			m.ranking, cmd = m.ranking.Update(msg)
		}
		return m, cmd

	default:
		// Filter matching and other list internals arrive as their own messages.
		m.channels, cmd = m.channels.Update(msg)
		m.syncSelectionFromList()
		return m, cmd
	}
}

func (m Model) applyReload(msg ReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		debug.Warn("ui: reload failed: %v", msg.Err)
		m.setStatus(fmt.Sprintf("Reload error: %v (showing previous data)", msg.Err), true)
		return m, nil
	}
	if msg.Dataset == nil || len(msg.Dataset.Influencers) == 0 {
		m.setStatus("Reload error: no influencers in new data (showing previous data)", true)
		return m, nil
	}

	prev := m.ds
	m.ds = msg.Dataset
	if _, ok := analysis.Summary(m.ds.Influencers, m.sel.Channel); !ok {
		m.sel.Channel = ""
	}
	view, err := dashboard.Build(m.ds, m.sel)
	if err != nil {
		m.ds = prev
		m.setStatus(fmt.Sprintf("Reload error: %v (showing previous data)", err), true)
		return m, nil
	}
	m.view = view
	m.sel = view.Selection
	cmd := m.channels.SetItems(channelItems(m.ds.Influencers))
	m.selectChannelInList(m.sel.Channel)
	m.resize()
	m.refresh()
	m.setStatus(fmt.Sprintf("Reloaded %d channels in %s", len(view.Channels), formatReloadDuration(msg.Took)), false)
	return m, cmd
}

// setMetric switches the ranking metric and rebuilds the view.
func (m *Model) setMetric(metric model.Metric) {
	if metric == m.sel.Metric {
		return
	}
	m.sel.Metric = metric
	m.rebuild()
}

// rebuild recomputes the view for the current selection.
func (m *Model) rebuild() {
	view, err := dashboard.Build(m.ds, m.sel)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.view = view
	m.sel = view.Selection
	m.resize()
	m.refresh()
}

// syncSelectionFromList rebuilds when the highlighted channel changed.
func (m *Model) syncSelectionFromList() {
	item, ok := m.channels.SelectedItem().(ChannelItem)
	if !ok || item.Influencer.ChannelName == m.sel.Channel {
		return
	}
	m.sel.Channel = item.Influencer.ChannelName
	m.rebuild()
	m.detail.GotoTop()
}

func (m *Model) selectChannelInList(channel string) {
	for i, it := range m.channels.Items() {
		if ci, ok := it.(ChannelItem); ok && ci.Influencer.ChannelName == channel {
			m.channels.Select(i)
			return
		}
	}
}

// jumpToRankedChannel selects the channel under the ranking cursor.
func (m *Model) jumpToRankedChannel() {
	rows := m.view.Ranking.Rows
	i := m.ranking.Cursor()
	if i < 0 || i >= len(rows) {
		return
	}
	if m.channels.FilterState() != list.Unfiltered {
		m.channels.ResetFilter()
	}
	m.sel.Channel = rows[i].Influencer.ChannelName
	m.selectChannelInList(m.sel.Channel)
	m.rebuild()
	m.detail.GotoTop()
}

func (m *Model) cycleFocus() {
	switch m.focused {
	case focusChannels:
		m.focused = focusDetail
	case focusDetail:
		m.focused = focusRanking
	default:
		m.focused = focusChannels
	}
	if m.focused == focusRanking {
		m.ranking.Focus()
	} else {
		m.ranking.Blur()
	}
}

func (m *Model) copySummary() {
	if err := m.copyText(m.view.CopyText()); err != nil {
		m.setStatus(fmt.Sprintf("❌ Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("📋 Copied %s summary to clipboard", m.sel.Channel), false)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

// --- layout ----------------------------------------------------------------

func (m Model) bodyHeight() int {
	h := m.height - 3 // header + status + help line
	if h < 8 {
		h = 8
	}
	return h
}

func (m Model) sidebarWidth() int {
	w := SidebarWidth
	if m.width-w < MinMainWidth {
		w = m.width - MinMainWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) mainWidth() int {
	w := m.width - m.sidebarWidth()
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) resize() {
	bodyH := m.bodyHeight()
	m.channels.SetSize(m.sidebarWidth()-2, bodyH-2)

	inner := m.mainWidth() - 2
	rows := len(m.view.Ranking.Rows)
	if rows < 1 {
		rows = 1
	}
	tableH := rows + 1
	// selector line + table header + border
	detailH := bodyH - 2 - tableH - 3
	if detailH < 4 {
		detailH = 4
		tableH = bodyH - 2 - detailH - 3
		if tableH < 2 {
			tableH = 2
		}
	}
	m.ranking.SetColumns(rankingColumns(m.sel.Metric, inner))
	m.ranking.SetWidth(inner)
	m.ranking.SetHeight(tableH)
	m.detail.Width = inner
	m.detail.Height = detailH
	m.help.Width = m.width
}

// refresh pushes the current view into the viewport and table.
func (m *Model) refresh() {
	m.ranking.SetRows(rankingRows(m.view.Ranking))
	if c := m.ranking.Cursor(); c >= len(m.view.Ranking.Rows) {
		m.ranking.SetCursor(0)
	}
	m.detail.SetContent(m.renderDetail(m.detail.Width))
}

func rankingColumns(metric model.Metric, width int) []table.Column {
	metricW := len(metric.String())
	nameW := width - 4 - 16 - metricW - 8
	if nameW < 12 {
		nameW = 12
	}
	return []table.Column{
		{Title: "Rank", Width: 4},
		{Title: "Channel Name", Width: nameW},
		{Title: "Subscriber Count", Width: 16},
		{Title: metric.String(), Width: metricW},
	}
}

func rankingRows(panel dashboard.RankingPanel) []table.Row {
	rows := make([]table.Row, 0, len(panel.Rows))
	for _, r := range panel.Rows {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Rank),
			r.Influencer.ChannelName,
			dashboard.FormatCount(r.Influencer.SubscriberCount),
			dashboard.FormatMetric(panel.Metric, float64(r.Value)),
		})
	}
	return rows
}

// --- rendering -------------------------------------------------------------

func (m Model) renderDetail(width int) string {
	t := m.theme
	sections := []string{
		t.Heading.Render("Overview of " + m.view.Selection.Channel),
		renderCards(m.view.Cards, width, t),
		renderSentimentBars(m.view.Sentiment, width, t),
		renderTrendBars(m.view.Trends, width, t),
		renderRankingBars(m.view.Ranking, width, t),
	}
	return strings.Join(sections, "\n\n")
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	t := m.theme
	header := t.Header.Render(dashboard.Title)
	if !m.view.LoadedAt.IsZero() {
		header += " " + t.MutedText.Render("loaded "+FormatTimeRel(m.view.LoadedAt))
	}

	if m.focused == focusHelp {
		modal := RenderHelpModal(t, m.helpRendered, m.width)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, modal))
	}

	bodyH := m.bodyHeight()
	sidebar := panelStyle(m.focused == focusChannels).
		Width(m.sidebarWidth() - 2).
		Height(bodyH - 2).
		Render(m.channels.View())

	rankingBlock := renderMetricSelector(m.sel.Metric, t) + "\n" + m.ranking.View()
	mainInner := lipgloss.JoinVertical(lipgloss.Left,
		m.detail.View(),
		panelStyle(m.focused == focusRanking).Width(m.mainWidth()-4).Render(rankingBlock),
	)
	main := panelStyle(m.focused == focusDetail).
		Width(m.mainWidth() - 2).
		Height(bodyH - 2).
		MaxHeight(bodyH).
		Render(mainInner)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter(), m.help.View(m.keys))
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.ErrorText.Render(truncate(m.statusMsg, m.width))
		}
		return m.theme.PrimaryBold.Render(truncate(m.statusMsg, m.width))
	}
	return m.theme.MutedText.Render(truncate(dashboard.Footer, m.width))
}

// --- accessors used by tests and the CLI -----------------------------------

// Selection returns the current channel and metric.
func (m Model) Selection() dashboard.Selection { return m.sel }

// CurrentView returns the dashboard view being displayed.
func (m Model) CurrentView() dashboard.View { return m.view }

// FocusState returns the focused pane name.
func (m Model) FocusState() string { return m.focused.String() }

// Status returns the footer status line and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Stop releases the file watcher.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func formatReloadDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
