package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/overlay"
	"github.com/julianstephens/onboard/internal/parser"
	"github.com/julianstephens/onboard/internal/stats"
)

// exportedTask writes completionDate as null when absent.
type exportedTask struct {
	models.Task
	CompletionDate *string `json:"completionDate"`
}

// Export is the JSON progress file.
type Export struct {
	Meta     models.Meta    `json:"meta"`
	Progress stats.Progress `json:"progress"`
	Tasks    []exportedTask `json:"tasks"`
}

type importedTask struct {
	ID             string  `json:"id"`
	Confirmed      bool    `json:"confirmed"`
	CompletionDate *string `json:"completionDate"`
}

type importFile struct {
	Tasks *[]importedTask `json:"tasks"`
}

// ExportJSON renders meta, overall progress and every task with its
// confirmation.
func (t *Tracker) ExportJSON(meta models.Meta) ([]byte, error) {
	tasks := t.AllTasks()
	exp := Export{
		Meta:     meta,
		Progress: stats.Overall(tasks),
		Tasks:    make([]exportedTask, 0, len(tasks)),
	}
	if exp.Meta == nil {
		exp.Meta = models.Meta{}
	}
	for _, task := range tasks {
		et := exportedTask{Task: task}
		if task.CompletionDate != "" {
			date := task.CompletionDate
			et.CompletionDate = &date
		}
		exp.Tasks = append(exp.Tasks, et)
	}

	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return data, nil
}

// ImportJSON replaces the overlay with the confirmations in an exported
// file and returns how many were restored. Task data in the file is not
// imported.
func (t *Tracker) ImportJSON(ctx context.Context, data []byte) (int, error) {
	var f importFile
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if f.Tasks == nil {
		return 0, fmt.Errorf("%w: missing tasks array", ErrInvalidImport)
	}

	tasks := make([]models.Task, 0, len(*f.Tasks))
	for _, it := range *f.Tasks {
		if it.ID == "" {
			continue
		}
		task := models.Task{ID: it.ID, Confirmed: it.Confirmed}
		if it.CompletionDate != nil {
			task.CompletionDate = *it.CompletionDate
		}
		tasks = append(tasks, task)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	next := overlay.Supersede(t.state, overlay.FromTasks(tasks, now), t.taskIDs(), now)
	if err := t.commit(ctx, next); err != nil {
		return 0, err
	}
	n := overlay.Count(next)
	logger.Info("Imported progress", "confirmed", n)
	return n, nil
}

// ExportCSV renders every task with its confirmation as CSV.
func (t *Tracker) ExportCSV() string {
	return parser.ExportCSV(t.AllTasks())
}

// ImportCSV replaces the task set with the sections in text and the overlay
// with the confirmations it carries. It returns the number of tasks read.
func (t *Tracker) ImportCSV(ctx context.Context, text string) (int, error) {
	sections := parser.ParseCSV(text, t.parseOpts...)
	if len(sections) == 0 {
		return 0, ErrNoTaskData
	}
	tasks := models.Flatten(sections)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.kv.Set(ctx, constants.KeyImportedTasks, text); err != nil {
		return 0, fmt.Errorf("failed to save imported tasks: %w", err)
	}
	prevIDs := t.taskIDs()
	t.sections, t.source = sections, SourceImported

	now := t.now()
	next := overlay.Supersede(t.state, overlay.FromTasks(tasks, now), append(prevIDs, t.taskIDs()...), now)
	if err := t.commit(ctx, next); err != nil {
		return 0, err
	}
	logger.Info("Imported task set", "sections", len(sections), "tasks", len(tasks))
	return len(tasks), nil
}
