package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Delete an existing database file before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Cfg()
	target := cfg.Storage.Target

	if c.Force && target != storage.MemoryTarget && !storage.IsPostgres(target) {
		if _, err := os.Stat(target); err == nil {
			// Close first so the file is not held open.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	p := storage.Open(target)
	if err := p.Init(ctx); err != nil {
		return err
	}
	if err := p.Close(); err != nil {
		return err
	}
	fmt.Printf("Initialized onboard storage at: %s\n", p.GetConfigPath())

	if path := cfg.Path(); path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}
			fmt.Printf("Wrote default config to: %s\n", path)
		}
	}

	fmt.Println("Next: run 'onboard login' to start tracking.")
	return nil
}
