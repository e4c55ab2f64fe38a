package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMediaFetched MsgKind = iota
	MsgMediaOpened
)

type mediaFetched struct {
	container *models.Media
	items     []*models.Media
	replace   bool
	err       error
}

// mediaFetchedMsg is the constructor for [MsgMediaFetched]
func mediaFetchedMsg(container *models.Media, items []*models.Media, replace bool, err error) Msg {
	return Msg{
		kind: MsgMediaFetched,
		data: mediaFetched{container: container, items: items, replace: replace, err: err},
	}
}

type mediaOpened struct {
	media *models.Media
	err   error
}

// mediaOpenedMsg is the constructor for [MsgMediaOpened]
func mediaOpenedMsg(media *models.Media, err error) Msg {
	return Msg{kind: MsgMediaOpened, data: mediaOpened{media: media, err: err}}
}
