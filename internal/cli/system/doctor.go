package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/onboard/internal/backup"
	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/cloudsync"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/keyring"
	"github.com/julianstephens/onboard/internal/migration"
	"github.com/julianstephens/onboard/internal/overlay"
	"github.com/julianstephens/onboard/internal/parser"
	"github.com/julianstephens/onboard/internal/storage/sqlite"
	"github.com/julianstephens/onboard/migrations"
)

// skipped marks a check that does not apply to the current setup.
type skipped string

func (s skipped) Error() string { return string(s) }

type check struct {
	name    string
	warning bool // failures are reported but do not fail the run
	needsDB bool
	run     func(*cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", warning: true, needsDB: true, run: checkBackupsPresent},
	{name: "Task data", run: checkTaskData},
	{name: "Confirmation state", needsDB: true, run: checkOverlay},
	{name: "Session", warning: true, needsDB: true, run: checkSession},
	{name: "Remote progress store", run: checkRemote},
	{name: "OS keyring", warning: true, run: checkKeyring},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true

	for i, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var skip skipped
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &skip):
			fmt.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skip)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	p, err := ctx.Provider()
	if err != nil {
		return err
	}
	if s, ok := p.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	p, err := ctx.Provider()
	if err != nil {
		return err
	}
	s, ok := p.(*sqlite.Store)
	if !ok {
		return skipped("not a sqlite store")
	}

	runner, err := migration.NewRunner(s.GetDB(), migrations.SQLite(), migration.DriverSQLite)
	if err != nil {
		return err
	}
	current, err := runner.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("database schema version %d does not match supported version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return skipped("not a sqlite store")
	}
	infos, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(infos) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'onboard backup create'")
	}
	return nil
}

func checkTaskData(ctx *cli.Context) error {
	d, err := ctx.Dataset()
	if err != nil {
		return err
	}
	sections := parser.ParseSpreadsheetRows(d.Rows, ctx.Cfg().ParseOptions()...)
	if len(sections) == 0 {
		return fmt.Errorf("task feed has %d rows but no sections at or below row %d", len(d.Rows), ctx.Cfg().Data.StartRow)
	}

	ids := make(map[string]bool)
	for _, s := range sections {
		for _, t := range s.Tasks {
			if ids[t.ID] {
				return fmt.Errorf("duplicate task id: %s", t.ID)
			}
			ids[t.ID] = true
		}
	}
	return nil
}

func checkOverlay(ctx *cli.Context) error {
	p, err := ctx.Provider()
	if err != nil {
		return err
	}
	state, err := cloudsync.LoadLocal(ctx, p)
	if err != nil {
		return fmt.Errorf("%w; it will be reset on next use", err)
	}
	if _, ok, err := p.Get(ctx, constants.KeyImportedTasks); err != nil {
		return err
	} else if ok {
		fmt.Println("   Note: using an imported task set ('onboard reset --tasks' restores the bundled plan)")
	}
	fmt.Printf("   %d confirmations stored\n", overlay.Count(state))
	return nil
}

func checkSession(ctx *cli.Context) error {
	mgr, err := ctx.Session()
	if err != nil {
		return err
	}
	_, err = mgr.Require(ctx)
	return err
}

func checkRemote(ctx *cli.Context) error {
	dsn, source, err := ctx.RemoteDSN()
	if err != nil {
		return err
	}
	if dsn == "" {
		return skipped("local only")
	}
	if _, err := ctx.Remote(); err != nil {
		return err
	}
	fmt.Printf("   Using remote from %s\n", source)
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}
	return nil
}
