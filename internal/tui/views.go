package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.view {
	case ViewForm:
		content = m.form.View()
	default:
		content = m.dashboard.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		content,
		"",
		m.renderHelp(),
	)
}

// renderTabs renders the view switcher.
func (m Model) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, v := range []View{ViewDashboard, ViewForm} {
		style := m.theme.Tab
		if v == m.view {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(v.String()))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	rule := lipgloss.NewStyle().
		Foreground(m.theme.Border).
		Render(strings.Repeat("─", max(m.width-lipgloss.Width(bar), 0)))
	return lipgloss.JoinHorizontal(lipgloss.Bottom, bar, rule)
}

// renderHelp renders the key hints for the active view.
func (m Model) renderHelp() string {
	return m.help.View(m.keymap.HelpFor(m.view))
}
