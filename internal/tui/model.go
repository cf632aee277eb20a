package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/tracker"
	"github.com/julianstephens/onboard/internal/tui/components/checklist"
)

type SessionState int

const (
	StateList SessionState = iota
	StateConfirmReset
)

// Tabs in display order.
var Tabs = []string{constants.TabAll, constants.TabPending, constants.TabCompleted}

var tabTitles = map[string]string{
	constants.TabAll:       "All",
	constants.TabPending:   "Pending",
	constants.TabCompleted: "Completed",
}

type ResetFormModel struct {
	Confirmed bool
}

type Model struct {
	ctx       context.Context
	tracker   *tracker.Tracker
	user      *models.User
	meta      models.Meta
	state     SessionState
	keys      KeyMap
	help      help.Model
	progress  progress.Model
	checklist checklist.Model
	form      *huh.Form
	resetForm *ResetFormModel
	tab       int
	status    string // last action, shown under the list
	err       error
	quitting  bool
	width     int
	height    int
}

// New builds the dashboard for an opened tracker. ctx bounds the storage
// calls made while the program runs.
func New(ctx context.Context, t *tracker.Tracker, user *models.User, meta models.Meta) Model {
	m := Model{
		ctx:      ctx,
		tracker:  t,
		user:     user,
		meta:     meta,
		state:    StateList,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
	m.checklist = checklist.New(m.visibleTasks(), 0, 0)
	return m
}

func (m Model) Tab() string {
	return Tabs[m.tab]
}

func (m Model) visibleTasks() []models.Task {
	return models.Flatten(m.tracker.Filter("", m.Tab()))
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	groups := m.keys.FullHelp()
	if !m.tracker.SyncEnabled() {
		// Drop the sync binding when there is nothing to sync with.
		groups[1] = groups[1][:len(groups[1])-1]
	}
	return groups
}

func (m Model) Init() tea.Cmd {
	if m.tracker.SyncEnabled() {
		return m.pull()
	}
	return nil
}
