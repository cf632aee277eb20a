// Package dataset ships the default training plan: the exported spreadsheet
// rows and the trainee metadata block.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/parser"
)

var (
	//go:embed tasks.json
	tasksJSON []byte
	//go:embed meta.json
	metaJSON []byte
)

// Dataset is a row feed plus its metadata.
type Dataset struct {
	Rows []parser.RawRow
	Meta models.Meta
}

// Load parses the bundled feed.
func Load() (Dataset, error) {
	return decode(tasksJSON, metaJSON)
}

// LoadFile reads an external feed. An empty metaPath keeps the bundled
// metadata.
func LoadFile(tasksPath, metaPath string) (Dataset, error) {
	rows, err := os.ReadFile(tasksPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read task feed: %w", err)
	}
	meta := metaJSON
	if metaPath != "" {
		if meta, err = os.ReadFile(metaPath); err != nil {
			return Dataset{}, fmt.Errorf("failed to read metadata: %w", err)
		}
	}
	return decode(rows, meta)
}

func decode(rows, meta []byte) (Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(rows, &d.Rows); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse task feed: %w", err)
	}
	if err := json.Unmarshal(meta, &d.Meta); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if d.Meta == nil {
		d.Meta = models.Meta{}
	}
	return d, nil
}
