// Package logger writes structured logs to a rotated file under the config
// directory. Commands log through the package-level helpers; stdout is kept
// for command output.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/onboard/internal/constants"
)

// Logger is the process logger. It is nil until Init, and the helpers are
// no-ops while it is.
var Logger *log.Logger

// Rotation defaults for the log file.
const (
	DefaultMaxSizeMB  = 5
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

type Config struct {
	Debug bool
	// Level overrides the level picked from Debug ("debug", "info", "warn",
	// "error"). Empty keeps the default.
	Level     string
	ConfigDir string
	// File replaces LogPath(ConfigDir) when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Quiet keeps debug output in the log file only. The TUI sets it so log
	// lines do not tear the rendered screen.
	Quiet bool
}

// LogPath returns the default log file for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func (c Config) level() (log.Level, error) {
	if c.Level != "" {
		lvl, err := log.ParseLevel(c.Level)
		if err != nil {
			return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		return lvl, nil
	}
	if c.Debug {
		return log.DebugLevel, nil
	}
	return log.InfoLevel, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Init replaces Logger. An invalid level is reported after the logger is
// set up at the default level, so logging still works.
func Init(cfg Config) error {
	path := cfg.File
	if path == "" {
		path = LogPath(cfg.ConfigDir)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(cfg.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	}

	level, levelErr := cfg.level()

	var w io.Writer = file
	if cfg.Debug && !cfg.Quiet {
		w = io.MultiWriter(os.Stderr, file)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return levelErr
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
