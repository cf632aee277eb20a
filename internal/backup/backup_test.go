package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/onboard/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "onboard.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatalf("failed to create kv table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('training-confirmations', '{"task-9":{"confirmed":true}}')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func setClock(t *testing.T, start time.Time) func() {
	t.Helper()
	old := nowFunc
	t.Cleanup(func() { nowFunc = old })
	current := start
	nowFunc = func() time.Time { return current }
	return func() { current = current.Add(time.Minute) }
}

func readValue(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open %s: %v", dbPath, err)
	}
	defer db.Close()
	var v string
	if err := db.QueryRow("SELECT value FROM kv WHERE key = 'training-confirmations'").Scan(&v); err != nil {
		t.Fatalf("failed to read value: %v", err)
	}
	return v
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	setClock(t, time.Date(2024, 3, 1, 9, 30, 15, 0, time.Local))

	mgr := NewManager(dbPath)
	info, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	wantName := constants.BackupFilePrefix + "20240301-093015" + constants.BackupFileSuffix
	if info.Name != wantName {
		t.Errorf("Name = %q, want %q", info.Name, wantName)
	}
	if filepath.Dir(info.Path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(info.Path), mgr.Dir())
	}
	if info.Size == 0 {
		t.Error("backup is empty")
	}
	if got := readValue(t, info.Path); got != `{"task-9":{"confirmed":true}}` {
		t.Errorf("backup contents = %q", got)
	}
}

func TestCreate_SameSecondAddsCounter(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	setClock(t, time.Date(2024, 3, 1, 9, 30, 15, 0, time.Local))

	mgr := NewManager(dbPath)
	first, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if first.Path == second.Path {
		t.Fatal("second backup overwrote the first")
	}
	if second.Name != constants.BackupFilePrefix+"20240301-093015-1"+constants.BackupFileSuffix {
		t.Errorf("second Name = %q", second.Name)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("List returned %d backups, want 2", len(backups))
	}
	if backups[0].Name != second.Name {
		t.Errorf("newest backup = %q, want %q", backups[0].Name, second.Name)
	}
}

func TestCreate_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(context.Background()); err == nil {
		t.Error("Create should fail for a missing database")
	}
}

func TestRotation(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	tick := setClock(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))

	mgr := NewManager(dbPath)
	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(ctx); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		tick()
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	oldestKept := time.Date(2024, 3, 1, 9, 3, 0, 0, time.Local)
	if got := backups[len(backups)-1].Timestamp; !got.Equal(oldestKept) {
		t.Errorf("oldest kept backup = %v, want %v", got, oldestKept)
	}
}

func TestList(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "onboard.db"))

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List on missing dir failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List on missing dir = %v", backups)
	}

	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"onboard-20240101-120000.db",
		"onboard-20240102-120000-3.db",
		"onboard-garbage.db",
		"onboard-20240101-120000-x.db",
		"notes.txt",
	} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("List returned %d backups, want 2: %v", len(backups), backups)
	}
	if backups[0].Name != "onboard-20240102-120000-3.db" {
		t.Errorf("newest = %q", backups[0].Name)
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	tick := setClock(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))

	mgr := NewManager(dbPath)
	snapshot, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	tick()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE kv SET value = '{}'"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(ctx, mgr.Resolve(snapshot.Name))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := readValue(t, dbPath); got != `{"task-9":{"confirmed":true}}` {
		t.Errorf("restored value = %q", got)
	}
	if previous.Path == "" {
		t.Fatal("Restore did not back up the current database")
	}
	if got := readValue(t, previous.Path); got != "{}" {
		t.Errorf("pre-restore backup value = %q, want {}", got)
	}
}

func TestRestore_Invalid(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(ctx, filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Restore should fail for a missing file")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, just some bytes to fill the header page"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(ctx, bogus); err == nil {
		t.Error("Restore should reject a non-sqlite file")
	}
	if got := readValue(t, dbPath); got == "" {
		t.Error("database damaged by failed restore")
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/data/onboard.db")
	tests := []struct{ in, want string }{
		{"onboard-20240101-120000.db", filepath.Join("/data", constants.BackupDirName, "onboard-20240101-120000.db")},
		{"/elsewhere/x.db", "/elsewhere/x.db"},
	}
	for _, tt := range tests {
		if got := mgr.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"onboard-20240101-120000.db", true},
		{"onboard-20240101-120000-12.db", true},
		{"onboard-20240101.db", false},
		{"backup-20240101-120000.db", false},
		{fmt.Sprintf("onboard-20240101-120000%s", ".bak"), false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
