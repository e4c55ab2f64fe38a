package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsx/internal/models"
)

// BrowseFunc lists the items of container. It is called from a [tea.Cmd]
// goroutine and must be safe to call concurrently with itself.
type BrowseFunc func(ctx context.Context, container *models.Media) ([]*models.Media, error)

// OpenFunc hands a non-collection entry's URL to an external player.
type OpenFunc func(url string) error

// level is one browsed container and the list showing its items.
type level struct {
	container *models.Media
	list      list.Model
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	browse  BrowseFunc
	open    OpenFunc
	root    *models.Media
	stack   []level
	loading bool
	width   int
	height  int
	err     error
	status  string
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model rooted at the given container.
func NewModel(ctx context.Context, root *models.Media, browse BrowseFunc) *Model {
	return &Model{
		ctx:    ctx,
		browse: browse,
		root:   root,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// SetOpener enables the play key. Without an opener the key does nothing.
func (m *Model) SetOpener(open OpenFunc) { m.open = open }

// Init browses the root container.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.fetch(m.root, false)
}

// Depth reports how many levels are open.
func (m *Model) Depth() int { return len(m.stack) }

// Current returns the container shown on top, or nil before the first browse completes.
func (m *Model) Current() *models.Media {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1].container
}

// Err returns the last browse error, if any.
func (m *Model) Err() error { return m.err }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.stack {
			m.stack[i].list.SetSize(m.listSize())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgMediaFetched:
			return m.handleFetched(msg.data.(mediaFetched))
		case MsgMediaOpened:
			res := msg.data.(mediaOpened)
			if res.err != nil {
				m.err = res.err
			} else {
				m.status = "Playing " + res.media.Title
			}
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}
	if len(m.stack) == 0 {
		return styles.help.Render("Loading...")
	}

	top := m.stack[len(m.stack)-1]
	helpKeys := []key.Binding{m.keys.enter}
	if len(m.stack) > 1 {
		helpKeys = append(helpKeys, m.keys.back)
	}
	if m.open != nil {
		helpKeys = append(helpKeys, m.keys.play)
	}
	helpKeys = append(helpKeys, m.keys.refresh, m.keys.quit)
	helpView := m.help.ShortHelpView(helpKeys)

	status := styles.ok.Render(m.status)
	if m.loading {
		status = styles.warn.Render("Loading...")
	}
	return fmt.Sprintf("%s\n%s\n\n%s %s", m.breadcrumb(), top.list.View(), helpView, status)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.err = nil
			if len(m.stack) == 0 {
				return m, tea.Quit
			}
		}
		return m, nil
	}
	if len(m.stack) == 0 {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	top := &m.stack[len(m.stack)-1]
	if top.list.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if len(m.stack) > 1 && top.list.FilterState() == list.Unfiltered {
			m.stack = m.stack[:len(m.stack)-1]
			return m, nil
		}
	case key.Matches(msg, m.keys.enter):
		if m.loading {
			return m, nil
		}
		if item, ok := top.list.SelectedItem().(mediaItem); ok && item.media.IsCollection() {
			m.loading = true
			return m, m.fetch(item.media, false)
		}
		return m, nil
	case key.Matches(msg, m.keys.play):
		item, ok := top.list.SelectedItem().(mediaItem)
		if m.open == nil || !ok || item.media.IsCollection() || item.media.URL == "" {
			return m, nil
		}
		return m, m.play(item.media)
	case key.Matches(msg, m.keys.refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch(top.container, true)
	}

	return m.updateList(msg)
}

func (m *Model) handleFetched(res mediaFetched) (tea.Model, tea.Cmd) {
	m.loading = false
	if res.err != nil {
		m.err = res.err
		return m, nil
	}

	width, height := m.listSize()
	l := newMediaList(res.container, res.items, width, height)
	if res.replace && len(m.stack) > 0 {
		m.stack[len(m.stack)-1] = level{container: res.container, list: l}
		return m, nil
	}
	m.stack = append(m.stack, level{container: res.container, list: l})
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.stack) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	top := &m.stack[len(m.stack)-1]
	top.list, cmd = top.list.Update(msg)
	return m, cmd
}

func (m *Model) fetch(container *models.Media, replace bool) tea.Cmd {
	return func() tea.Msg {
		items, err := m.browse(m.ctx, container)
		return mediaFetchedMsg(container, items, replace, err)
	}
}

func (m *Model) play(media *models.Media) tea.Cmd {
	open := m.open
	return func() tea.Msg {
		return mediaOpenedMsg(media, open(media.URL))
	}
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 0), max(m.height-6, 0)
}

func (m *Model) breadcrumb() string {
	names := make([]string, len(m.stack))
	for i, lvl := range m.stack {
		names[i] = containerTitle(lvl.container)
	}
	return styles.title.Render(strings.Join(names, " › "))
}
