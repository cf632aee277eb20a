package parser

import "strings"

// TokenizeCSVLine splits one line of the tracker's CSV format into fields.
//
// The scan keeps quote characters in the raw fields and only tracks whether
// it is inside a quoted run, so a comma inside quotes does not split. Each
// raw field then loses one leading and one trailing quote and has doubled
// quotes collapsed. An unbalanced quote leaves the rest of the line in
// quoted mode; the line still tokenizes.
func TokenizeCSVLine(line string) []string {
	var raw []string
	var field strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			field.WriteRune(r)
		case r == ',' && !inQuotes:
			raw = append(raw, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	raw = append(raw, field.String())

	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = unquote(f)
	}
	return fields
}

func unquote(f string) string {
	f = strings.TrimPrefix(f, `"`)
	f = strings.TrimSuffix(f, `"`)
	return strings.ReplaceAll(f, `""`, `"`)
}
