package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/onboard/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateConfirmReset:
		content = lipgloss.Place(m.width, max(m.height-headerHeight, 0),
			lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		content = m.checklist.View()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewHeader() string {
	name := m.meta.Employee()
	if name == "" && m.user != nil {
		name = m.user.Name
	}
	if name == "" {
		name = constants.DefaultTrainee
	}
	position := m.meta.Position()
	if position == "" {
		position = constants.UnknownRole
	}

	p := m.tracker.Stats()
	summary := fmt.Sprintf("%d/%d confirmed", p.Completed, p.Total)
	if m.tracker.SyncEnabled() {
		summary += " · synced"
	} else {
		summary += " · local only"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(name)+" "+mutedStyle.Render(position),
		m.progress.ViewAs(float64(p.Percentage)/100),
		mutedStyle.Render(summary),
		"",
	)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[tab]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[tab]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}
