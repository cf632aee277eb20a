package transfer

import (
	"fmt"
	"os"

	"github.com/julianstephens/onboard/internal/cli"
)

type ImportCmd struct {
	Format string `arg:"" help:"Import format." enum:"json,csv"`
	File   string `arg:"" help:"File produced by 'onboard export'." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	t, _, err := ctx.Tracker()
	if err != nil {
		return err
	}

	// Imports replace the current progress wholesale.
	ctx.PerformAutomaticBackup()

	switch c.Format {
	case FormatJSON:
		n, err := t.ImportJSON(ctx, data)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Restored %d confirmations from %s\n", n, c.File)
	case FormatCSV:
		n, err := t.ImportCSV(ctx, string(data))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Imported %d tasks from %s\n", n, c.File)
	default:
		return fmt.Errorf("unsupported import format: %s", c.Format)
	}

	p := t.Stats()
	fmt.Printf("Progress: %d/%d (%d%%)\n", p.Completed, p.Total, p.Percentage)
	return nil
}
