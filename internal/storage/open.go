// Package storage defines the key-value and progress stores the tracker
// persists to, and picks a provider from a target string.
package storage

import (
	"strings"

	"github.com/julianstephens/onboard/internal/storage/postgres"
	"github.com/julianstephens/onboard/internal/storage/sqlite"
)

// MemoryTarget selects the in-process store.
const MemoryTarget = "memory"

// Open returns the provider for target without touching it. Postgres URLs
// and DSNs select postgres, a .json path the JSON file store, "memory" the
// in-process store and any other value a sqlite database path.
func Open(target string) Provider {
	switch {
	case target == MemoryTarget:
		return NewMemoryStore()
	case IsPostgres(target):
		return postgres.New(target)
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return NewJSONStore(target)
	default:
		return sqlite.NewStore(target)
	}
}

// IsPostgres reports whether target is a postgres URL or key=value DSN.
func IsPostgres(target string) bool {
	if strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://") {
		return true
	}
	return strings.Contains(target, "host=") || strings.Contains(target, "dbname=")
}
