// Package clitest builds command contexts over throwaway stores.
package clitest

import (
	"path/filepath"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/config"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/storage"
)

// Now is the fixed clock of contexts returned by NewContext.
var Now = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

// NewContext returns a context over an initialized sqlite store in a temp
// directory, with a mocked keyring and no remote.
func NewContext(t *testing.T) *cli.Context {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv(constants.EnvRemoteDSN, "")

	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	cfg.Storage.Target = filepath.Join(dir, "onboard.db")

	p := storage.Open(cfg.Storage.Target)
	if err := p.Init(t.Context()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	_ = p.Close()

	ctx := &cli.Context{
		Context: t.Context(),
		Config:  cfg,
		Store:   storage.NewHandle(cfg.Storage.Target, false),
		Clock:   func() time.Time { return Now },
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

// LoggedIn is NewContext with the demo user logged in.
func LoggedIn(t *testing.T) *cli.Context {
	t.Helper()
	ctx := NewContext(t)
	mgr, err := ctx.Session()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Login(ctx, nil); err != nil {
		t.Fatal(err)
	}
	return ctx
}
