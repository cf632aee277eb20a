package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/onboard/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func newRunner(t *testing.T, db *sql.DB, files map[string]string) *Runner {
	t.Helper()
	r, err := NewRunner(db, migrationFS(files), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return r
}

func TestNewRunner_UnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestBind(t *testing.T) {
	sqlite := &Runner{driver: DriverSQLite}
	pg := &Runner{driver: DriverPostgres}
	q := "INSERT INTO kv (key, value) VALUES (?, ?)"

	if got := sqlite.bind(q); got != q {
		t.Errorf("sqlite bind = %q", got)
	}
	if got := pg.bind(q); got != "INSERT INTO kv (key, value) VALUES ($1, $2)" {
		t.Errorf("postgres bind = %q", got)
	}
}

func TestCurrentVersion(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t, setupTestDB(t), map[string]string{"001_test.sql": "CREATE TABLE test (id INTEGER);"})

	version, err := r.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := r.SetVersion(ctx, 5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = r.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestMigrations(t *testing.T) {
	r := newRunner(t, setupTestDB(t), map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	})

	migrations, err := r.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	if len(migrations) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
	}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d = %d/%s, want %d/%s", i, migrations[i].Version, migrations[i].Name, w.version, w.name)
		}
	}
}

func TestMigrations_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"no underscore", map[string]string{"001.sql": "SELECT 1;"}, "invalid migration filename"},
		{"non-numeric", map[string]string{"abc_init.sql": "SELECT 1;"}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "must be at least 1"},
		{"duplicate", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}, "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(t, setupTestDB(t), tt.files)
			_, err := r.Migrations()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApply_FromScratch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	r := newRunner(t, db, map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	})

	var logs []string
	count, err := r.Apply(ctx, func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logs) == 0 {
		t.Error("expected log output")
	}

	version, _ := r.CurrentVersion(ctx)
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	for _, table := range []string{"users", "posts"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s was not created", table)
		}
	}

	count, err = r.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", count)
	}
}

func TestApply_Incremental(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	files := map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"}

	if _, err := newRunner(t, db, files).Apply(ctx, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	files["002_b.sql"] = "CREATE TABLE b (id INTEGER);"
	count, err := newRunner(t, db, files).Apply(ctx, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pending migration, got %d", count)
	}
}

func TestApply_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	r := newRunner(t, db, map[string]string{
		"001_init.sql":   "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER",
	})

	count, err := r.Apply(ctx, nil)
	if err == nil {
		t.Fatal("expected error for broken migration")
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", count)
	}
	version, _ := r.CurrentVersion(ctx)
	if version != 1 {
		t.Errorf("expected version 1 after failure, got %d", version)
	}
}

func TestValidateVersion(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t, setupTestDB(t), map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"})

	if err := r.ValidateVersion(ctx); err != nil {
		t.Errorf("fresh database should validate: %v", err)
	}
	if err := r.SetVersion(ctx, 9); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := r.ValidateVersion(ctx); err == nil {
		t.Error("expected error for newer schema")
	}
	if _, err := r.Apply(ctx, nil); err == nil {
		t.Error("Apply should refuse a newer schema")
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	r, err := NewRunner(db, migrations.SQLite(), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	if _, err := r.Apply(ctx, nil); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}
	for _, table := range []string{"kv", "user_progress"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s was not created", table)
		}
	}
}
