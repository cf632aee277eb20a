package models

// Task is one trackable training item.
type Task struct {
	ID       string `json:"id"`
	Section  string `json:"section"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Form     string `json:"form"`     // delivery form (online, offline, ...)
	Mentor   string `json:"mentor"`   // assigned mentor
	Deadline string `json:"deadline"` // planned time, free text from the sheet
	Status   string `json:"status"`   // progress column from the sheet
	Score    string `json:"score,omitempty"`

	// Confirmed and CompletionDate are local state. They are filled in by the
	// confirmation overlay, or read back from a CSV export.
	Confirmed      bool   `json:"confirmed"`
	CompletionDate string `json:"completionDate,omitempty"` // RFC3339, empty when absent
}

// Section is an ordered, named group of tasks.
type Section struct {
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Flatten returns every task of every section in source order.
func Flatten(sections []Section) []Task {
	var n int
	for _, s := range sections {
		n += len(s.Tasks)
	}
	tasks := make([]Task, 0, n)
	for _, s := range sections {
		tasks = append(tasks, s.Tasks...)
	}
	return tasks
}
