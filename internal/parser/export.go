package parser

import (
	"strconv"
	"strings"

	"github.com/julianstephens/onboard/internal/models"
)

// CSVHeader lists the exported columns in order.
var CSVHeader = []string{
	"ID", "Section", "Category", "Content", "Form", "Mentor",
	"Deadline", "Status", "Score", "Confirmed", "CompletionDate",
}

// ExportCSV writes tasks in the tracker's CSV format. Every field, header
// included, is quoted. Lines are separated by "\n" and the output has no
// trailing newline.
func ExportCSV(tasks []models.Task) string {
	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, joinQuoted(CSVHeader))
	for _, t := range tasks {
		lines = append(lines, joinQuoted([]string{
			t.ID,
			t.Section,
			t.Category,
			t.Content,
			t.Form,
			t.Mentor,
			t.Deadline,
			t.Status,
			t.Score,
			strconv.FormatBool(t.Confirmed),
			t.CompletionDate,
		}))
	}
	return strings.Join(lines, "\n")
}

func joinQuoted(fields []string) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	return sb.String()
}
