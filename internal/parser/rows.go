package parser

import (
	"fmt"
	"strings"

	"github.com/julianstephens/onboard/internal/models"
)

const (
	// DefaultStartRow is the first spreadsheet row holding task data. Rows
	// above it are the sheet's title block and column headers.
	DefaultStartRow = 9
	// DefaultCategory labels tasks in a section that never named a category.
	DefaultCategory = "General"
)

// Spreadsheet column positions, 0-indexed within RawRow.Cells.
const (
	colSection  = 1
	colCategory = 3
	colContent  = 4
	colForm     = 6
	colMentor   = 7
	colDeadline = 9
	colStatus   = 10
	colScore    = 14
)

// Options controls row interpretation.
type Options struct {
	StartRow         int
	FallbackCategory string
}

// Option mutates Options.
type Option func(*Options)

// WithStartRow sets the first row number treated as data.
func WithStartRow(row int) Option {
	return func(o *Options) { o.StartRow = row }
}

// WithFallbackCategory sets the category used before any category cell appears.
func WithFallbackCategory(category string) Option {
	return func(o *Options) {
		if category != "" {
			o.FallbackCategory = category
		}
	}
}

func newOptions(opts []Option) Options {
	o := Options{StartRow: DefaultStartRow, FallbackCategory: DefaultCategory}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sectionBuilder tracks the open section and carried category for a single
// parse call. It is shared by the spreadsheet and CSV paths.
type sectionBuilder struct {
	fallback string
	sections []models.Section
	current  *models.Section
	category string
}

// observe applies the section and category cells of one input row. A title
// equal to the open section's title is a merged-cell repeat and is ignored.
func (b *sectionBuilder) observe(title, category string) {
	if title != "" && (b.current == nil || b.current.Title != title) {
		b.closeSection()
		b.current = &models.Section{Title: title, Tasks: []models.Task{}}
		b.category = ""
	}
	if category != "" {
		b.category = category
	}
}

// add appends a task to the open section, filling section and category.
// It reports false when no section is open.
func (b *sectionBuilder) add(task models.Task) bool {
	if b.current == nil {
		return false
	}
	task.Section = b.current.Title
	task.Category = b.category
	if task.Category == "" {
		task.Category = b.fallback
	}
	b.current.Tasks = append(b.current.Tasks, task)
	return true
}

func (b *sectionBuilder) closeSection() {
	if b.current != nil {
		b.sections = append(b.sections, *b.current)
		b.current = nil
	}
}

func (b *sectionBuilder) finish() []models.Section {
	b.closeSection()
	return b.sections
}

// normalizeTitle folds the line breaks of a merged header cell into spaces.
func normalizeTitle(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// ParseSpreadsheetRows converts an exported sheet into its sections. Rows
// below the start row, rows without content and rows outside any section
// produce no task; a row without content still opens sections and updates
// the carried category.
func ParseSpreadsheetRows(rows []RawRow, opts ...Option) []models.Section {
	o := newOptions(opts)
	b := &sectionBuilder{fallback: o.FallbackCategory}

	for _, row := range rows {
		if row.Row < o.StartRow {
			continue
		}
		cells := row.Cells
		b.observe(normalizeTitle(cellAt(cells, colSection)), cellAt(cells, colCategory))

		content := cellAt(cells, colContent)
		if content == "" {
			continue
		}
		b.add(models.Task{
			ID:       fmt.Sprintf("task-%d", row.Row),
			Content:  content,
			Form:     cellAt(cells, colForm),
			Mentor:   cellAt(cells, colMentor),
			Deadline: cellAt(cells, colDeadline),
			Status:   cellAt(cells, colStatus),
			Score:    cellAt(cells, colScore),
		})
	}

	return b.finish()
}
