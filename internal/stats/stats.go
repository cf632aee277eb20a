// Package stats derives progress figures from tasks with the confirmation
// overlay already applied.
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/onboard/internal/models"
)

// Progress is a completed/total pair with a rounded percentage.
type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

func newProgress(total, completed int) Progress {
	p := Progress{Total: total, Completed: completed}
	if total > 0 {
		p.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return p
}

// Overall counts confirmed tasks.
func Overall(tasks []models.Task) Progress {
	completed := 0
	for _, t := range tasks {
		if t.Confirmed {
			completed++
		}
	}
	return newProgress(len(tasks), completed)
}

// SectionProgress is the progress of one section.
type SectionProgress struct {
	Title string `json:"title"`
	Progress
}

// BySection returns progress per section in section order.
func BySection(sections []models.Section) []SectionProgress {
	out := make([]SectionProgress, 0, len(sections))
	for _, s := range sections {
		out = append(out, SectionProgress{Title: s.Title, Progress: Overall(s.Tasks)})
	}
	return out
}

// Dimension groups sections and categories by keyword.
type Dimension struct {
	Name     string
	Keywords []string
}

// DefaultDimensions are the three training tracks of the onboarding plan.
var DefaultDimensions = []Dimension{
	{Name: "学分制培训", Keywords: []string{"学分"}},
	{Name: "中欧培训", Keywords: []string{"中欧", "CEIBS"}},
	{Name: "AI培训", Keywords: []string{"AI"}},
}

// DimensionsFromConfig turns a name to keywords map into dimensions, keeping
// the default order for known names. An empty map yields the defaults.
func DimensionsFromConfig(cfg map[string][]string) []Dimension {
	if len(cfg) == 0 {
		return DefaultDimensions
	}
	dims := make([]Dimension, 0, len(cfg))
	seen := make(map[string]bool, len(cfg))
	for _, d := range DefaultDimensions {
		if kw, ok := cfg[d.Name]; ok {
			dims = append(dims, Dimension{Name: d.Name, Keywords: kw})
			seen[d.Name] = true
		}
	}
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		dims = append(dims, Dimension{Name: name, Keywords: cfg[name]})
	}
	return dims
}

// DimensionProgress is the progress of the tasks matching one dimension.
type DimensionProgress struct {
	Name string `json:"name"`
	Progress
}

// Dimensions matches each task against every dimension's keywords, looking
// at the task's section title and category. Matching is case-insensitive;
// a task may count toward several dimensions.
func Dimensions(sections []models.Section, dims []Dimension) []DimensionProgress {
	out := make([]DimensionProgress, 0, len(dims))
	for _, d := range dims {
		var matched []models.Task
		for _, s := range sections {
			for _, t := range s.Tasks {
				if matches(d, s.Title) || matches(d, t.Category) {
					matched = append(matched, t)
				}
			}
		}
		out = append(out, DimensionProgress{Name: d.Name, Progress: Overall(matched)})
	}
	return out
}

func matches(d Dimension, text string) bool {
	text = strings.ToLower(text)
	for _, kw := range d.Keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
