package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/cli/account"
	"github.com/julianstephens/onboard/internal/cli/backups"
	"github.com/julianstephens/onboard/internal/cli/system"
	"github.com/julianstephens/onboard/internal/cli/training"
	"github.com/julianstephens/onboard/internal/cli/transfer"
	"github.com/julianstephens/onboard/internal/config"
	"github.com/julianstephens/onboard/internal/constants"
	apperrors "github.com/julianstephens/onboard/internal/errors"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_file}"`
	DB      string `name:"db" help:"Local store: sqlite path, .json file, 'memory', or a PostgreSQL connection string without a password. Overrides storage.target."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init      system.InitCmd        `cmd:"" help:"Initialize onboard storage."`
	Doctor    system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd         `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Login     account.LoginCmd      `cmd:"" help:"Log in (demo account unless --name/--id are given)."`
	Logout    account.LogoutCmd     `cmd:"" help:"Log out. Progress stays on this machine."`
	Whoami    account.WhoamiCmd     `cmd:"" help:"Show the logged-in user."`
	List      training.ListCmd      `cmd:"" help:"List training tasks."`
	Confirm   training.ConfirmCmd   `cmd:"" help:"Mark tasks as done."`
	Unconfirm training.UnconfirmCmd `cmd:"" help:"Mark tasks as not done."`
	Reset     training.ResetCmd     `cmd:"" help:"Clear all confirmations."`
	Stats     training.StatsCmd     `cmd:"" help:"Show progress statistics."`
	Export    transfer.ExportCmd    `cmd:"" help:"Export progress as JSON or tasks as CSV."`
	Import    transfer.ImportCmd    `cmd:"" help:"Import a JSON or CSV export."`
	Sync      struct {
		Pull   system.SyncPullCmd   `cmd:"" help:"Merge remote progress into local progress." default:"1"`
		Push   system.SyncPushCmd   `cmd:"" help:"Upload local progress to the remote store."`
		Status system.SyncStatusCmd `cmd:"" help:"Show which remote store is used."`
	} `cmd:"" help:"Synchronize progress with the remote store."`
	Backup    struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring   struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the remote connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the remote connection string in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Onboarding training tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
	if CLI.DB != "" {
		target, err := config.ExpandPath(CLI.DB)
		if err != nil {
			fmt.Fprintln(os.Stderr, apperrors.Format(err))
			os.Exit(1)
		}
		cfg.Storage.Target = target
	}

	isTUI := strings.HasPrefix(kctx.Command(), "tui")
	if err := logger.Init(logger.Config{
		Debug:      CLI.Debug || cfg.Log.Debug,
		Level:      cfg.Log.Level,
		ConfigDir:  cfg.Dir(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Quiet:      isTUI,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := &cli.Context{
		Context: ctx,
		Config:  cfg,
		Store:   storage.NewHandle(cfg.Storage.Target, false),
	}

	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	if err != nil {
		logger.Error("Command execution failed", "command", kctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		stop()
		os.Exit(1)
	}
}
