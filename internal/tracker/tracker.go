// Package tracker owns the parsed training plan and the confirmation overlay
// on top of it. Every mutation is written back to the local store before it
// returns, and pushed to the remote store when one is configured.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/onboard/internal/cloudsync"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/overlay"
	"github.com/julianstephens/onboard/internal/parser"
	"github.com/julianstephens/onboard/internal/stats"
	"github.com/julianstephens/onboard/internal/storage"
)

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrNoTaskData    = errors.New("no task data found")
	ErrInvalidImport = errors.New("invalid import file format")
)

// Source tells where the current sections came from.
type Source string

const (
	SourceBundled  Source = "bundled"
	SourceImported Source = "imported"
)

type Options struct {
	KV           storage.KV
	Rows         []parser.RawRow
	ParseOptions []parser.Option
	// Syncer is optional; without it progress stays local.
	Syncer *cloudsync.Syncer
	Clock  func() time.Time
}

type Tracker struct {
	mu sync.Mutex

	kv        storage.KV
	rows      []parser.RawRow
	parseOpts []parser.Option
	syncer    *cloudsync.Syncer
	now       func() time.Time

	sections []models.Section
	source   Source
	state    models.ConfirmationState
}

// New loads the imported task set if one was saved, else parses the
// bundled rows, and loads the overlay. A corrupt overlay is logged and
// replaced by an empty one.
func New(ctx context.Context, opts Options) (*Tracker, error) {
	if opts.KV == nil {
		return nil, fmt.Errorf("tracker requires a store")
	}
	t := &Tracker{
		kv:        opts.KV,
		rows:      opts.Rows,
		parseOpts: opts.ParseOptions,
		syncer:    opts.Syncer,
		now:       opts.Clock,
	}
	if t.now == nil {
		t.now = time.Now
	}

	if err := t.loadSections(ctx); err != nil {
		return nil, err
	}

	state, err := cloudsync.LoadLocal(ctx, t.kv)
	if err != nil {
		logger.Warn("Resetting unreadable confirmation state", "error", err)
		state = models.ConfirmationState{}
	}
	t.state = state
	return t, nil
}

func (t *Tracker) loadSections(ctx context.Context) error {
	text, ok, err := t.kv.Get(ctx, constants.KeyImportedTasks)
	if err != nil {
		return fmt.Errorf("failed to read imported tasks: %w", err)
	}
	if ok {
		if sections := parser.ParseCSV(text, t.parseOpts...); len(sections) > 0 {
			t.sections, t.source = sections, SourceImported
			return nil
		}
		logger.Warn("Ignoring imported task set without tasks")
	}
	t.sections = parser.ParseSpreadsheetRows(t.rows, t.parseOpts...)
	t.source = SourceBundled
	return nil
}

// Source reports whether the bundled plan or an imported CSV is in use.
func (t *Tracker) Source() Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.source
}

// Sections returns the sections with the overlay applied.
func (t *Tracker) Sections() []models.Section {
	t.mu.Lock()
	defer t.mu.Unlock()
	return overlay.Apply(t.sections, t.state)
}

// AllTasks returns every task with the overlay applied, in source order.
func (t *Tracker) AllTasks() []models.Task {
	return models.Flatten(t.Sections())
}

// Task looks up one task by id.
func (t *Tracker) Task(id string) (models.Task, bool) {
	for _, task := range t.AllTasks() {
		if task.ID == id {
			return task, true
		}
	}
	return models.Task{}, false
}

// State returns a copy of the overlay.
func (t *Tracker) State() models.ConfirmationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Stats returns overall progress.
func (t *Tracker) Stats() stats.Progress {
	return stats.Overall(t.AllTasks())
}

func (t *Tracker) known(id string) bool {
	for _, s := range t.sections {
		for _, task := range s.Tasks {
			if task.ID == id {
				return true
			}
		}
	}
	return false
}

// Confirm marks id confirmed or unconfirmed.
func (t *Tracker) Confirm(ctx context.Context, id string, checked bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.known(id) {
		return fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	next := overlay.Toggle(t.state, id, checked, t.now())
	if err := t.commit(ctx, next); err != nil {
		return err
	}
	logger.Debug("Updated task", "id", id, "confirmed", checked)
	return nil
}

// Reset clears every confirmation. Each cleared id keeps an unconfirmed
// entry so the reset wins over older confirmations on other devices.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := overlay.Supersede(t.state, nil, t.taskIDs(), t.now())
	if err := t.commit(ctx, next); err != nil {
		return fmt.Errorf("failed to reset confirmations: %w", err)
	}
	logger.Info("Progress reset")
	return nil
}

// taskIDs lists the ids of the current sections. The caller holds mu.
func (t *Tracker) taskIDs() []string {
	var ids []string
	for _, s := range t.sections {
		for _, task := range s.Tasks {
			ids = append(ids, task.ID)
		}
	}
	return ids
}

// ResetTasks drops an imported task set and returns to the bundled plan.
// Confirmations are kept.
func (t *Tracker) ResetTasks(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.kv.Delete(ctx, constants.KeyImportedTasks); err != nil {
		return fmt.Errorf("failed to remove imported tasks: %w", err)
	}
	t.sections = parser.ParseSpreadsheetRows(t.rows, t.parseOpts...)
	t.source = SourceBundled
	return nil
}

// Pull merges the remote overlay into the local one.
func (t *Tracker) Pull(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	merged, err := t.syncer.Pull(ctx)
	if err != nil {
		return err
	}
	t.state = merged
	return nil
}

// Push uploads the current overlay.
func (t *Tracker) Push(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.syncer.Push(ctx, t.state)
}

// SyncEnabled reports whether a remote store is configured.
func (t *Tracker) SyncEnabled() bool {
	return t.syncer.Enabled()
}

// commit persists next locally, adopts it, and pushes it. The caller holds mu.
func (t *Tracker) commit(ctx context.Context, next models.ConfirmationState) error {
	if err := cloudsync.SaveLocal(ctx, t.kv, next); err != nil {
		return err
	}
	t.state = next
	t.push(ctx)
	return nil
}

// push sends the overlay to the remote. Failures never fail the mutation;
// the change is already saved locally.
func (t *Tracker) push(ctx context.Context) {
	if !t.syncer.Enabled() {
		return
	}
	if err := t.syncer.Push(ctx, t.state); err != nil {
		logger.Warn("Cloud sync failed, progress saved locally", "error", err)
	}
}

// Filter returns sections whose tasks match query and tab. The query matches
// content or category case-insensitively; an empty query matches all.
// Sections left without tasks are dropped.
func (t *Tracker) Filter(query, tab string) []models.Section {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Section
	for _, s := range t.Sections() {
		var tasks []models.Task
		for _, task := range s.Tasks {
			if matchesQuery(task, q) && matchesTab(task, tab) {
				tasks = append(tasks, task)
			}
		}
		if len(tasks) > 0 {
			out = append(out, models.Section{Title: s.Title, Tasks: tasks})
		}
	}
	return out
}

func matchesQuery(task models.Task, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Content), q) ||
		strings.Contains(strings.ToLower(task.Category), q)
}

func matchesTab(task models.Task, tab string) bool {
	switch tab {
	case "", constants.TabAll:
		return true
	case constants.TabCompleted:
		return task.Confirmed
	default:
		return !task.Confirmed
	}
}
