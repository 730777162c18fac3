package tui

import (
	"github.com/Veraticus/cabdesk/internal/tui/components"
	"github.com/Veraticus/cabdesk/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// View represents the screen shown by the coordinator.
type View int

const (
	ViewDashboard View = iota
	ViewForm
)

// String returns the tab label of the view.
func (v View) String() string {
	if v == ViewForm {
		return "Data Entry"
	}
	return "Dashboard"
}

// chromeHeight is the number of lines used by the tab bar and help footer.
const chromeHeight = 4

// Model switches between the dashboard and the entry form. It owns the edit
// context handed from a dashboard day to the form.
type Model struct {
	theme       themes.Theme
	editContext *components.EditContext
	config      Config
	keymap      KeyMap
	help        help.Model
	dashboard   components.DashboardModel
	form        components.EntryFormModel
	width       int
	height      int
	view        View
	formMounted bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	m := Model{
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		theme:  cfg.Theme,
		view:   ViewDashboard,
		width:  cfg.Width,
		height: cfg.Height,
		dashboard: components.NewDashboardModel(components.DashboardConfig{
			Cabs:    cfg.API,
			Source:  cfg.API,
			Theme:   cfg.Theme,
			Timeout: cfg.Timeout,
		}),
	}
	m.handleResize()
	return m
}

// Init loads the dashboard.
func (m Model) Init() tea.Cmd {
	return m.dashboard.Init()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case components.EditRequestMsg:
		ec := msg.Context
		m.editContext = &ec
		cmd := m.showForm()
		return m, cmd

	case components.EditContextConsumedMsg:
		if m.editContext != nil && *m.editContext == msg.Context {
			m.ClearEditContext()
		}
		return m, nil
	}

	// Responses are tagged with their owner and request key, so both
	// components see every one and keep only their own.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	if m.formMounted {
		m.form, cmd = m.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey handles global keys and forwards the rest to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.SwitchView):
		var cmd tea.Cmd
		if m.view == ViewDashboard {
			cmd = m.showForm()
		} else {
			cmd = m.showDashboard()
		}
		return m, cmd

	case key.Matches(msg, m.keymap.ShowDashboard):
		if m.view == ViewDashboard {
			return m, nil
		}
		cmd := m.showDashboard()
		return m, cmd

	case key.Matches(msg, m.keymap.ShowForm):
		if m.view == ViewForm {
			return m, nil
		}
		cmd := m.showForm()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.view == ViewForm {
		if key.Matches(msg, m.keymap.Back) {
			cmd = m.showDashboard()
			return m, cmd
		}
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	// Text entry lives on the form only, so plain letters are free here.
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.handleResize()
		return m, nil
	}
	m.dashboard, cmd = m.dashboard.Update(msg)
	return m, cmd
}

// showForm mounts a fresh entry form, seeded with the edit context when one
// is pending.
func (m *Model) showForm() tea.Cmd {
	m.view = ViewForm
	m.form = components.NewEntryFormModel(components.FormConfig{
		Cabs:    m.config.API,
		Store:   m.config.API,
		Now:     m.config.Now,
		Theme:   m.theme,
		User:    m.config.User,
		Timeout: m.config.Timeout,
	})
	m.formMounted = true
	m.handleResize()

	cmds := []tea.Cmd{m.form.Init()}
	if m.editContext != nil {
		var cmd tea.Cmd
		m.form, cmd = m.form.ApplyEditContext(*m.editContext)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// showDashboard discards the form and refreshes the dashboard so saved
// entries show up in the summaries.
func (m *Model) showDashboard() tea.Cmd {
	m.view = ViewDashboard
	m.form = components.EntryFormModel{}
	m.formMounted = false

	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.SelectCab(m.dashboard.CabFilter())
	return cmd
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	height := max(m.height-chromeHeight, 0)
	if m.help.ShowAll {
		height = max(height-len(m.keymap.HelpFor(m.view).FullHelp()), 0)
	}
	m.help.Width = m.width
	m.dashboard.Resize(m.width, height)
	if m.formMounted {
		m.form.Resize(m.width, height)
	}
}

// ClearEditContext drops the pending edit context.
func (m *Model) ClearEditContext() {
	m.editContext = nil
}

// EditContext returns the pending edit context, if any.
func (m Model) EditContext() *components.EditContext {
	return m.editContext
}

// ActiveView returns the view currently shown.
func (m Model) ActiveView() View {
	return m.view
}

// Dashboard returns the dashboard component.
func (m Model) Dashboard() components.DashboardModel {
	return m.dashboard
}

// Form returns the entry form component. It is the zero value while the
// dashboard is shown.
func (m Model) Form() components.EntryFormModel {
	return m.form
}
