// Package migrations embeds the schema migrations for each SQL backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the sqlite migrations rooted at their directory.
func SQLite() fs.FS { return sub("sqlite") }

// Postgres returns the postgres migrations rooted at their directory.
func Postgres() fs.FS { return sub("postgres") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(FS, dir)
	if err != nil {
		// The directories are embedded at build time.
		panic(err)
	}
	return f
}
