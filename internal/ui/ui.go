package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/djx/internal/auth"
	"github.com/desertthunder/djx/internal/platforms"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlatformListView ViewState = iota
	AuthorizeView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	registry     *platforms.Registry
	manager      *auth.Manager
	flow         auth.Authorizer
	width        int
	height       int
	platformList list.Model
	selected     platforms.Provider
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, registry *platforms.Registry, manager *auth.Manager, flow auth.Authorizer) *Model {
	return &Model{
		ctx:      ctx,
		view:     PlatformListView,
		registry: registry,
		manager:  manager,
		flow:     flow,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading every platform's token status.
func (m *Model) Init() tea.Cmd {
	return m.loadStatuses()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.platformList.Width() == 0 {
			m.platformList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlatformListView:
			return m.handlePlatformListKeys(msg)
		case AuthorizeView:
			return m.handleAuthorizeKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case statusesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = item
		}
		m.platformList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.platformList.Title = "Platforms"
		m.platformList.SetSize(m.width-4, m.height-8)
		m.view = PlatformListView
		return m, nil

	case authorizeDoneMsg:
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlatformListView:
		return m.renderPlatformList()
	case AuthorizeView:
		return m.renderAuthorize()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlatformListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.platformList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(platformItem); ok {
				m.selected = item.provider
				m.view = AuthorizeView
				return m, m.startAuthorize(item.provider)
			}
		}
	}

	var cmd tea.Cmd
	m.platformList, cmd = m.platformList.Update(msg)
	return m, cmd
}

func (m *Model) handleAuthorizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.err = nil
		return m, m.loadStatuses()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == PlatformListView {
		m.platformList, cmd = m.platformList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadStatuses() tea.Cmd {
	return func() tea.Msg {
		names := m.registry.Names()
		items := make([]platformItem, 0, len(names))
		for _, name := range names {
			provider, err := m.registry.Lookup(name)
			if err != nil {
				return statusesLoadedMsg{err: err}
			}
			status, err := m.manager.Status(provider)
			if err != nil {
				return statusesLoadedMsg{err: err}
			}
			items = append(items, platformItem{provider: provider, status: status})
		}
		return statusesLoadedMsg{items: items}
	}
}

func (m *Model) startAuthorize(provider platforms.Provider) tea.Cmd {
	return func() tea.Msg {
		_, err := m.flow.Authorize(m.ctx, provider)
		return authorizeDoneMsg{platform: provider.Name, err: err}
	}
}

func (m *Model) renderPlatformList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var banner string
	for _, it := range m.platformList.Items() {
		if item, ok := it.(platformItem); ok && item.status.NeedsRefresh && !item.status.Refreshable {
			banner = styles.warn.Render(fmt.Sprintf("%s has an expired token that cannot refresh; authorize it again.", displayName(item.provider.Name))) + "\n\n"
			break
		}
	}

	return fmt.Sprintf("%s\n\n%s%s", m.platformList.View(), banner, helpView)
}

func (m *Model) renderAuthorize() string {
	title := styles.title.Render(fmt.Sprintf("Authorizing %s", displayName(m.selected.Name)))
	body := "A browser window should have opened.\nApprove the request there; this screen advances on the redirect."
	hint := styles.help.Render(fmt.Sprintf("Stuck? Quit and run 'djx auth %s' to see the consent URL.", m.selected.Name))

	helpKeys := []key.Binding{m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, body, hint, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		title := styles.err.Render("✗ Authorization failed")
		return fmt.Sprintf("%s\n\n%v\n\n%s", title, m.err, helpView)
	}

	title := styles.ok.Render("✓ Authorization complete")
	info := fmt.Sprintf("\n%s is connected. Tokens were saved to disk.\n", displayName(m.selected.Name))
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
