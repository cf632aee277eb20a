package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/onboard/internal/tui/components/checklist"
)

// pulledMsg reports a background sync with the remote store.
type pulledMsg struct{ err error }

func (m Model) pull() tea.Cmd {
	t, ctx := m.tracker, m.ctx
	return func() tea.Msg {
		return pulledMsg{err: t.Pull(ctx)}
	}
}

// headerHeight covers the tab bar, trainee line, progress bar and margins.
const headerHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-8, 60)
		m.checklist.SetSize(msg.Width-4, max(msg.Height-headerHeight-2, 3))
		return m, nil

	case pulledMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.status = "Synced with remote"
		}
		return m, m.refresh()

	case checklist.ToggleMsg:
		if err := m.tracker.Confirm(m.ctx, msg.ID, msg.Checked); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if task, ok := m.tracker.Task(msg.ID); ok {
			if msg.Checked {
				m.status = "Confirmed: " + task.Content
			} else {
				m.status = "Unconfirmed: " + task.Content
			}
		}
		return m, m.refresh()
	}

	if m.state == StateConfirmReset {
		return m.updateResetForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.checklist.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % len(Tabs)
			return m, m.refresh()
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab - 1 + len(Tabs)) % len(Tabs)
			return m, m.refresh()
		case key.Matches(msg, m.keys.Reset):
			return m.openResetForm()
		case key.Matches(msg, m.keys.Sync):
			if m.tracker.SyncEnabled() {
				m.status = "Syncing..."
				return m, m.pull()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.checklist, cmd = m.checklist.Update(msg)
	return m, cmd
}

func (m *Model) refresh() tea.Cmd {
	return m.checklist.SetTasks(m.visibleTasks())
}

func (m Model) openResetForm() (tea.Model, tea.Cmd) {
	m.resetForm = &ResetFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset all training progress?").
				Description("Every confirmation will be cleared.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(&m.resetForm.Confirmed),
		),
	)
	m.state = StateConfirmReset
	return m, m.form.Init()
}

func (m Model) updateResetForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateList
		m.form, m.resetForm = nil, nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateList
		if m.resetForm.Confirmed {
			if err := m.tracker.Reset(m.ctx); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = "Progress reset"
			}
		}
		m.form, m.resetForm = nil, nil
		return m, m.refresh()
	case huh.StateAborted:
		m.state = StateList
		m.form, m.resetForm = nil, nil
		return m, nil
	}
	return m, cmd
}
