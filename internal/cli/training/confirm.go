package training

import (
	"errors"
	"fmt"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/tracker"
)

type ConfirmCmd struct {
	IDs []string `arg:"" name:"id" help:"Task ids to confirm (see 'onboard list --show-ids')."`
}

func (c *ConfirmCmd) Run(ctx *cli.Context) error {
	return setConfirmed(ctx, c.IDs, true)
}

type UnconfirmCmd struct {
	IDs []string `arg:"" name:"id" help:"Task ids to mark as not done."`
}

func (c *UnconfirmCmd) Run(ctx *cli.Context) error {
	return setConfirmed(ctx, c.IDs, false)
}

// setConfirmed applies every id it can and reports the unknown ones
// together.
func setConfirmed(ctx *cli.Context, ids []string, checked bool) error {
	t, _, err := ctx.Tracker()
	if err != nil {
		return err
	}

	verb := "Confirmed"
	if !checked {
		verb = "Unconfirmed"
	}

	var errs []error
	for _, id := range ids {
		if err := t.Confirm(ctx, id, checked); err != nil {
			if errors.Is(err, tracker.ErrUnknownTask) {
				errs = append(errs, err)
				continue
			}
			return err
		}
		task, _ := t.Task(id)
		fmt.Printf("✓ %s: %s\n", verb, task.Content)
	}

	p := t.Stats()
	fmt.Printf("Progress: %d/%d (%d%%)\n", p.Completed, p.Total, p.Percentage)
	return errors.Join(errs...)
}
