package system

import (
	"fmt"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/cloudsync"
	"github.com/julianstephens/onboard/internal/tracker"
)

// syncTracker opens the remote eagerly so connection errors surface here
// instead of being downgraded to local-only mode.
func syncTracker(ctx *cli.Context) (*tracker.Tracker, error) {
	remote, err := ctx.Remote()
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return nil, cloudsync.ErrRemoteNotConfigured
	}
	t, _, err := ctx.Tracker()
	return t, err
}

type SyncPullCmd struct{}

func (c *SyncPullCmd) Run(ctx *cli.Context) error {
	t, err := syncTracker(ctx)
	if err != nil {
		return err
	}
	if err := t.Pull(ctx); err != nil {
		return err
	}
	p := t.Stats()
	fmt.Printf("✓ Pulled remote progress: %d/%d (%d%%)\n", p.Completed, p.Total, p.Percentage)
	return nil
}

type SyncPushCmd struct{}

func (c *SyncPushCmd) Run(ctx *cli.Context) error {
	t, err := syncTracker(ctx)
	if err != nil {
		return err
	}
	if err := t.Push(ctx); err != nil {
		return err
	}
	fmt.Printf("✓ Pushed %d confirmations\n", t.Stats().Completed)
	return nil
}

type SyncStatusCmd struct{}

func (c *SyncStatusCmd) Run(ctx *cli.Context) error {
	dsn, source, err := ctx.RemoteDSN()
	if err != nil {
		return err
	}
	if dsn == "" {
		fmt.Println("ℹ No remote progress store configured; progress is kept on this machine")
		return nil
	}
	fmt.Printf("Remote: %s (from %s)\n", MaskPassword(dsn), source)
	if _, err := ctx.Remote(); err != nil {
		fmt.Println("❌ Remote unreachable")
		return err
	}
	fmt.Println("✓ Remote reachable")
	return nil
}
