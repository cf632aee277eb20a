package storage

import (
	"context"

	"github.com/julianstephens/onboard/internal/models"
)

// KV is a string key-value store. Get reports false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
}

// ProgressStore holds one confirmation row per user.
type ProgressStore interface {
	LoadProgress(ctx context.Context, userID string) (models.Progress, bool, error)
	// SaveProgress upserts on the user id.
	SaveProgress(ctx context.Context, p models.Progress) error
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	KV
	ProgressStore

	// Utils
	GetConfigPath() string
}
