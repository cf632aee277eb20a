package backups

import (
	"errors"
	"testing"

	"github.com/julianstephens/onboard/internal/backup"
	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/cli/clitest"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/storage"
	"github.com/julianstephens/onboard/internal/storage/sqlite"
)

func TestBackupCreateAndList(t *testing.T) {
	ctx := clitest.NewContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on an empty directory failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	path, _ := ctx.SQLitePath()
	infos, err := backup.NewManager(path).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("got %d backups, want 1", len(infos))
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx := clitest.LoggedIn(t)
	dbPath, _ := ctx.SQLitePath()

	// The backup holds the session; restoring it after logout brings it back.
	info, err := backup.NewManager(dbPath).Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mgr, _ := ctx.Session()
	if err := mgr.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupRestoreCmd{BackupFile: info.Name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	s := sqlite.NewStore(dbPath)
	if err := s.Load(t.Context()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok, err := s.Get(t.Context(), constants.KeyUser); err != nil || !ok {
		t.Errorf("restored database has no session (ok=%v, err=%v)", ok, err)
	}
}

func TestBackupRestoreCmd_MissingFile(t *testing.T) {
	ctx := clitest.NewContext(t)

	if err := (&BackupRestoreCmd{BackupFile: "onboard-20240101-000000.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackupCmds_NotSQLite(t *testing.T) {
	ctx := &cli.Context{
		Context: t.Context(),
		Store:   storage.NewHandle(storage.MemoryTarget, true),
	}
	defer ctx.Close()

	for name, cmd := range map[string]interface{ Run(*cli.Context) error }{
		"create":  &BackupCreateCmd{},
		"list":    &BackupListCmd{},
		"restore": &BackupRestoreCmd{BackupFile: "x.db", Yes: true},
	} {
		t.Run(name, func(t *testing.T) {
			if err := cmd.Run(ctx); !errors.Is(err, errNotSQLite) {
				t.Errorf("error = %v, want errNotSQLite", err)
			}
		})
	}
}
