package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/tel9980/KVideo/internal/models"
)

var _ list.Item = sourceItem{}

// sourceItem wraps [models.Source] to implement [list.Item].
type sourceItem struct {
	source  models.Source
	premium bool
}

func (i sourceItem) FilterValue() string { return i.source.DisplayName() }
func (i sourceItem) Title() string {
	if i.premium {
		return fmt.Sprintf("%s ★", i.source.DisplayName())
	}
	return i.source.DisplayName()
}

func (i sourceItem) Description() string {
	desc := i.source.API
	if i.source.Detail != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.source.Detail)
	}
	return desc
}

func sourceItems(settings models.Settings) []list.Item {
	items := make([]list.Item, 0, len(settings.Sources)+len(settings.PremiumSources))
	for _, s := range settings.Sources {
		items = append(items, sourceItem{source: s})
	}
	for _, s := range settings.PremiumSources {
		items = append(items, sourceItem{source: s, premium: true})
	}
	return items
}
