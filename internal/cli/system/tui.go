package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/lock"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	l, err := lock.Acquire(ctx.Cfg().Dir())
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release session lock", "error", err)
		}
	}()

	t, user, err := ctx.Tracker()
	if err != nil {
		return err
	}
	d, err := ctx.Dataset()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.New(ctx, t, user, d.Meta), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
