package training

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/onboard/internal/cli"
)

type ResetCmd struct {
	Tasks bool `help:"Also drop an imported task set and return to the bundled plan."`
	Yes   bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	t, _, err := ctx.Tracker()
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		prompt := huh.NewConfirm().
			Title("Reset all training progress?").
			Description("Every confirmation will be cleared. This cannot be undone.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed)
		if err := prompt.Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := t.Reset(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Progress reset")

	if c.Tasks {
		if err := t.ResetTasks(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Restored the bundled training plan")
	}
	return nil
}
