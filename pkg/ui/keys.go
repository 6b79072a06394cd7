package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the dashboard bindings. It implements help.KeyMap.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Filter     key.Binding
	Focus      key.Binding
	NextMetric key.Binding
	PrevMetric key.Binding
	Metric1    key.Binding
	Metric2    key.Binding
	Metric3    key.Binding
	Reload     key.Binding
	Copy       key.Binding
	Export     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter channels")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		NextMetric: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next metric")),
		PrevMetric: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "prev metric")),
		Metric1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "engagement rate")),
		Metric2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sentiment weighted")),
		Metric3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "total score")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy summary")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export charts")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.NextMetric, k.Filter, k.Export, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter, k.Focus},
		{k.NextMetric, k.PrevMetric, k.Metric1, k.Metric2, k.Metric3},
		{k.Reload, k.Copy, k.Export, k.Help, k.Quit},
	}
}
