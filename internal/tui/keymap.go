package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Views
	SwitchView    key.Binding
	ShowDashboard key.Binding
	ShowForm      key.Binding
	Back          key.Binding

	// Dashboard
	Up        key.Binding
	Down      key.Binding
	Pane      key.Binding
	Select    key.Binding
	Expand    key.Binding
	NextCab   key.Binding
	PrevCab   key.Binding
	Refresh   key.Binding
	EditEntry key.Binding

	// Entry form
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	Submit    key.Binding
	Reload    key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Views
		SwitchView: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+T", "switch view"),
		),
		ShowDashboard: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "dashboard"),
		),
		ShowForm: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "data entry"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back to dashboard"),
		),

		// Dashboard
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Pane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "months/days"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select month"),
		),
		Expand: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "expand month"),
		),
		NextCab: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "next cab"),
		),
		PrevCab: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "previous cab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		EditEntry: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit day"),
		),

		// Entry form
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab/↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab/↑", "previous field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "change choice"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", "submit"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "reload entry"),
		),

		// Application
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchView, k.ShowDashboard, k.ShowForm, k.Back},
		{k.Up, k.Down, k.Pane, k.Select, k.Expand},
		{k.NextCab, k.PrevCab, k.Refresh, k.EditEntry},
		{k.NextField, k.PrevField, k.Cycle, k.Submit, k.Reload},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// viewHelp narrows the help text to the bindings of one view.
type viewHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (v viewHelp) ShortHelp() []key.Binding  { return v.short }
func (v viewHelp) FullHelp() [][]key.Binding { return v.full }

// HelpFor returns the help bindings shown while a view is active.
func (k KeyMap) HelpFor(v View) help.KeyMap {
	if v == ViewForm {
		return viewHelp{
			short: []key.Binding{k.NextField, k.Cycle, k.Submit, k.Back},
			full: [][]key.Binding{
				{k.NextField, k.PrevField, k.Cycle},
				{k.Submit, k.Reload},
				{k.SwitchView, k.Back, k.ForceQuit},
			},
		}
	}
	return viewHelp{
		short: []key.Binding{k.Select, k.NextCab, k.EditEntry, k.SwitchView, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Pane, k.Select, k.Expand},
			{k.NextCab, k.PrevCab, k.Refresh, k.EditEntry},
			{k.SwitchView, k.ShowForm, k.Help, k.Quit},
		},
	}
}
