package parser

import (
	"fmt"
	"strings"

	"github.com/julianstephens/onboard/internal/models"
)

// CSV column positions, matching the header written by ExportCSV.
const (
	csvID = iota
	csvSection
	csvCategory
	csvContent
	csvForm
	csvMentor
	csvDeadline
	csvStatus
	csvScore
	csvConfirmed
	csvCompletionDate
)

// minCSVFields is the shortest line still treated as data.
const minCSVFields = 3

// sectionMarker is the Chinese column label used by sheet-derived exports.
// Header detection only looks at the first line, so a first data line with a
// field equal to "Section" or containing sectionMarker is dropped as a header.
const sectionMarker = "版块"

// ParseCSV reads text produced by ExportCSV back into sections. It is not a
// general CSV reader: fields may not span lines, and short or blank lines are
// skipped without error. Task ids come from the ID column so that
// confirmations keyed by id survive an export and re-import.
func ParseCSV(text string, opts ...Option) []models.Section {
	o := newOptions(opts)
	b := &sectionBuilder{fallback: o.FallbackCategory}

	lines := strings.Split(text, "\n")
	start := 0
	if len(lines) > 0 && isHeader(TokenizeCSVLine(strings.TrimSuffix(lines[0], "\r"))) {
		start = 1
	}

	for i := start; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := TokenizeCSVLine(line)
		if len(fields) < minCSVFields {
			continue
		}

		b.observe(nonBlank(field(fields, csvSection)), nonBlank(field(fields, csvCategory)))

		content := field(fields, csvContent)
		if strings.TrimSpace(content) == "" {
			continue
		}
		id := field(fields, csvID)
		if strings.TrimSpace(id) == "" {
			id = fmt.Sprintf("csv-row-%d", i)
		}
		task := models.Task{
			ID:        id,
			Content:   content,
			Form:      field(fields, csvForm),
			Mentor:    field(fields, csvMentor),
			Deadline:  field(fields, csvDeadline),
			Status:    field(fields, csvStatus),
			Score:     field(fields, csvScore),
			Confirmed: field(fields, csvConfirmed) == "true",
		}
		if task.Confirmed {
			task.CompletionDate = field(fields, csvCompletionDate)
		}
		b.add(task)
	}

	return b.finish()
}

func isHeader(fields []string) bool {
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if strings.EqualFold(f, "section") || strings.Contains(f, sectionMarker) {
			return true
		}
	}
	return false
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

func nonBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
