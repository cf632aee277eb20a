package transfer

import (
	"fmt"
	"os"

	"github.com/julianstephens/onboard/internal/cli"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type ExportCmd struct {
	Format string `arg:"" help:"Export format." enum:"json,csv"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	t, _, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var data []byte
	switch c.Format {
	case FormatJSON:
		d, err := ctx.Dataset()
		if err != nil {
			return err
		}
		if data, err = t.ExportJSON(d.Meta); err != nil {
			return err
		}
	case FormatCSV:
		data = []byte(t.ExportCSV())
	default:
		return fmt.Errorf("unsupported export format: %s", c.Format)
	}

	if c.Output == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(c.Output, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	p := t.Stats()
	fmt.Printf("✓ Exported %d tasks (%d confirmed) to %s\n", p.Total, p.Completed, c.Output)
	return nil
}
