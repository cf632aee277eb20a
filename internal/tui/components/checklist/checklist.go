package checklist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/onboard/internal/models"
)

// ToggleMsg asks the parent to flip the confirmation of a task.
type ToggleMsg struct {
	ID      string
	Checked bool
}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	if i.Task.Confirmed {
		return "✓ " + i.Task.Content
	}
	return "○ " + i.Task.Content
}

func (i Item) Description() string {
	parts := []string{i.Task.Section + " › " + i.Task.Category}
	if i.Task.Mentor != "" {
		parts = append(parts, "mentor "+i.Task.Mentor)
	}
	if i.Task.Deadline != "" {
		parts = append(parts, "due "+i.Task.Deadline)
	}
	if i.Task.Confirmed && len(i.Task.CompletionDate) >= 10 {
		parts = append(parts, "done "+i.Task.CompletionDate[:10])
	}
	return strings.Join(parts, " · ")
}

// FilterValue feeds the list's fuzzy search with content and category.
func (i Item) FilterValue() string { return i.Task.Content + " " + i.Task.Category }

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.Task, width, height int) Model {
	l := list.New(items(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = "Training tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model
	l.SetStatusBarItemName("task", "tasks")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}
	return Model{list: l, keys: keys}
}

func items(tasks []models.Task) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t}
	}
	return out
}

// SetTasks replaces the items and keeps the cursor in place where possible.
func (m *Model) SetTasks(tasks []models.Task) tea.Cmd {
	idx := m.list.Index()
	cmd := m.list.SetItems(items(tasks))
	if n := len(m.list.VisibleItems()); n > 0 {
		if idx >= n {
			idx = n - 1
		}
		m.list.Select(idx)
	}
	return cmd
}

// Filtering reports whether the search prompt has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Selected returns the highlighted task.
func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() && key.Matches(msg, m.keys.Toggle) {
		if task, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleMsg{ID: task.ID, Checked: !task.Confirmed} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  Nothing here.\n  Switch tabs with 'tab'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
