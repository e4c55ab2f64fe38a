package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/shared"
)

var _ list.Item = mediaItem{}

// mediaItem wraps [models.Media] to implement [list.Item].
type mediaItem struct {
	media *models.Media
}

func (i mediaItem) FilterValue() string { return i.media.Title }

func (i mediaItem) Title() string {
	title := i.media.Title
	if i.media.Artist != "" {
		title = fmt.Sprintf("%s - %s", i.media.Artist, title)
	}
	if i.media.IsCollection() {
		return title + "/"
	}
	return title
}

func (i mediaItem) Description() string {
	parts := []string{i.media.Kind.String()}
	switch {
	case i.media.IsCollection():
		if i.media.ChildCount > 0 {
			parts = append(parts, fmt.Sprintf("%d items", i.media.ChildCount))
		}
	case i.media.Mime != "":
		parts = append(parts, i.media.Mime)
	}
	if i.media.Duration > 0 {
		parts = append(parts, shared.FormatDuration(i.media.Duration))
	}
	if i.media.Album != "" {
		parts = append(parts, i.media.Album)
	}
	return strings.Join(parts, " • ")
}

func newMediaList(container *models.Media, items []*models.Media, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, m := range items {
		listItems[i] = mediaItem{media: m}
	}
	l := list.New(listItems, list.NewDefaultDelegate(), width, height)
	l.Title = containerTitle(container)
	l.SetShowHelp(false)
	return l
}

func containerTitle(container *models.Media) string {
	if container.Title != "" {
		return container.Title
	}
	return container.URL
}
