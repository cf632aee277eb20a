package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the type of value a spreadsheet cell holds.
type CellKind int

const (
	CellAbsent CellKind = iota
	CellString
	CellNumber
)

// Cell is one spreadsheet cell: a string, a number, or nothing.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
}

// StringCell returns a cell holding s.
func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// NumberCell returns a cell holding n.
func NumberCell(n float64) Cell { return Cell{Kind: CellNumber, Num: n} }

// String returns the trimmed textual view of the cell. Absent cells are "".
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return strings.TrimSpace(c.Str)
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// UnmarshalJSON accepts null, a string, or a number.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Cell{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = StringCell(s)
		return nil
	case 't', 'f':
		// Booleans show up in some sheet exports; keep their text.
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = StringCell(strconv.FormatBool(b))
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("unsupported cell value %s", data)
	}
	*c = NumberCell(n)
	return nil
}

// MarshalJSON writes the cell back in the shape it was read.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		return json.Marshal(c.Num)
	default:
		return []byte("null"), nil
	}
}

// RawRow is one physical spreadsheet row.
type RawRow struct {
	Row   int    `json:"row"`
	Cells []Cell `json:"cells"`
}

// cellAt returns the trimmed text of cells[i], or "" when out of range.
func cellAt(cells []Cell, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i].String()
}
