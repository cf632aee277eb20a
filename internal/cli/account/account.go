package account

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/session"
)

type LoginCmd struct {
	Name        string `help:"Display name. Defaults to the demo user."`
	ID          string `help:"User id that keys remote progress. Defaults to the demo user."`
	Interactive bool   `short:"i" help:"Prompt for the name and id."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Session()
	if err != nil {
		return err
	}

	if c.Interactive {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	var u *models.User
	if c.Name != "" || c.ID != "" {
		u = &models.User{ID: c.ID, Name: c.Name}
	}
	user, err := mgr.Login(ctx, u)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Logged in as %s (%s)\n", user.Name, user.ID)
	return nil
}

func (c *LoginCmd) prompt() error {
	demo := session.DemoUser()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder(demo.Name).
				Value(&c.Name),
			huh.NewInput().
				Title("User ID").
				Description("Progress is synced under this id.").
				Placeholder(demo.ID).
				Value(&c.ID),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("login cancelled")
		}
		return err
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := mgr.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Logged out. Your progress is kept on this machine.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Session()
	if err != nil {
		return err
	}
	user, err := mgr.Require(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", user.Name, user.ID)
	if d, err := ctx.Dataset(); err == nil {
		if pos := d.Meta.Position(); pos != "" {
			fmt.Printf("  Position: %s\n", pos)
		}
	}
	return nil
}
