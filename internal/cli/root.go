package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/onboard/internal/backup"
	"github.com/julianstephens/onboard/internal/cloudsync"
	"github.com/julianstephens/onboard/internal/config"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/dataset"
	"github.com/julianstephens/onboard/internal/keyring"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/session"
	"github.com/julianstephens/onboard/internal/storage"
	"github.com/julianstephens/onboard/internal/storage/postgres"
	"github.com/julianstephens/onboard/internal/storage/sqlite"
	"github.com/julianstephens/onboard/internal/tracker"
)

// Remote connection string sources, in lookup order.
const (
	RemoteFromKeyring = "keyring"
	RemoteFromEnv     = "environment"
	RemoteFromConfig  = "config"
)

// Context is bound into every command. It embeds the process context so it
// can be passed straight to storage calls.
type Context struct {
	context.Context

	Config *config.Config
	Store  *storage.Handle
	// Clock overrides the wall clock for confirmation timestamps.
	Clock func() time.Time

	data    *dataset.Dataset
	remote  storage.Provider
	tracker *tracker.Tracker
	user    *models.User
}

// Provider returns the opened local store.
func (c *Context) Provider() (storage.Provider, error) {
	return c.Store.Get(c)
}

// Session returns the session manager backed by the local store.
func (c *Context) Session() (*session.Manager, error) {
	p, err := c.Provider()
	if err != nil {
		return nil, err
	}
	return session.NewManager(p), nil
}

// Dataset returns the configured task feed, or the bundled one.
func (c *Context) Dataset() (dataset.Dataset, error) {
	if c.data != nil {
		return *c.data, nil
	}
	var (
		d   dataset.Dataset
		err error
	)
	if cfg := c.Cfg(); cfg.Data.TasksFile != "" {
		d, err = dataset.LoadFile(cfg.Data.TasksFile, cfg.Data.MetaFile)
	} else {
		d, err = dataset.Load()
	}
	if err != nil {
		return dataset.Dataset{}, err
	}
	c.data = &d
	return d, nil
}

// RemoteDSN resolves the remote connection string from the keyring, then
// ONBOARD_REMOTE_DSN, then config.yaml. It returns "" when none is set.
// Only the config file is refused when it embeds a password.
func (c *Context) RemoteDSN() (string, string, error) {
	dsn, err := keyring.GetRemoteDSN()
	switch {
	case err == nil && dsn != "":
		return dsn, RemoteFromKeyring, nil
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("Skipping keyring lookup", "error", err)
	}

	if dsn := strings.TrimSpace(os.Getenv(constants.EnvRemoteDSN)); dsn != "" {
		return dsn, RemoteFromEnv, nil
	}

	cfg := c.Cfg()
	if !cfg.Remote.Enabled || cfg.Remote.DSN == "" {
		return "", "", nil
	}
	if storage.IsPostgres(cfg.Remote.DSN) {
		if _, err := postgres.ValidateConnString(cfg.Remote.DSN); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", RemoteFromConfig, fmt.Errorf("remote.dsn in %s must not embed a password; use 'onboard keyring set' instead", cfg.Path())
			}
			return "", RemoteFromConfig, err
		}
	}
	return cfg.Remote.DSN, RemoteFromConfig, nil
}

// Remote opens the remote progress store. It returns nil, nil when no
// remote is configured.
func (c *Context) Remote() (storage.Provider, error) {
	if c.remote != nil {
		return c.remote, nil
	}
	dsn, source, err := c.RemoteDSN()
	if err != nil || dsn == "" {
		return nil, err
	}
	p := storage.Open(dsn)
	if err := p.Init(c); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to open remote progress store from %s: %w", source, err)
	}
	logger.Debug("Opened remote progress store", "source", source)
	c.remote = p
	return p, nil
}

// Tracker returns the tracker for the logged-in user. Commands that read
// or change progress go through it, so they all require a session.
func (c *Context) Tracker() (*tracker.Tracker, *models.User, error) {
	if c.tracker != nil {
		return c.tracker, c.user, nil
	}
	p, err := c.Provider()
	if err != nil {
		return nil, nil, err
	}
	user, err := session.NewManager(p).Require(c)
	if err != nil {
		return nil, nil, err
	}
	d, err := c.Dataset()
	if err != nil {
		return nil, nil, err
	}

	var syncer *cloudsync.Syncer
	remote, err := c.Remote()
	if err != nil {
		logger.Warn("Remote progress store unavailable, working locally", "error", err)
	} else if remote != nil {
		syncer = cloudsync.New(p, remote, user.ID)
	}

	t, err := tracker.New(c, tracker.Options{
		KV:           p,
		Rows:         d.Rows,
		ParseOptions: c.Cfg().ParseOptions(),
		Syncer:       syncer,
		Clock:        c.Clock,
	})
	if err != nil {
		return nil, nil, err
	}
	c.tracker, c.user = t, user
	return t, user, nil
}

// SQLitePath returns the database file when the local store is sqlite.
func (c *Context) SQLitePath() (string, bool) {
	p, err := c.Provider()
	if err != nil {
		return "", false
	}
	if s, ok := p.(*sqlite.Store); ok {
		return s.GetConfigPath(), true
	}
	return "", false
}

// PerformAutomaticBackup snapshots a sqlite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).Create(c); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Now returns the current time from Clock or the wall clock.
func (c *Context) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// Close releases the local and remote stores.
func (c *Context) Close() error {
	var errs []error
	if c.remote != nil {
		errs = append(errs, c.remote.Close())
		c.remote = nil
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

// Cfg returns the loaded config, or the defaults when none was set.
func (c *Context) Cfg() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}
