package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// ChannelItem wraps an influencer row to implement list.Item
type ChannelItem struct {
	Influencer model.Influencer
}

func (i ChannelItem) Title() string {
	return i.Influencer.ChannelName
}

func (i ChannelItem) Description() string {
	return dashboard.FormatCount(i.Influencer.SubscriberCount) + " subscribers"
}

func (i ChannelItem) FilterValue() string {
	return i.Influencer.ChannelName
}

// channelItems builds one list item per distinct channel, keeping the first
// row for duplicated names.
func channelItems(influencers []model.Influencer) []list.Item {
	seen := make(map[string]bool, len(influencers))
	items := make([]list.Item, 0, len(influencers))
	for _, inf := range influencers {
		if seen[inf.ChannelName] {
			continue
		}
		seen[inf.ChannelName] = true
		items = append(items, ChannelItem{Influencer: inf})
	}
	return items
}
