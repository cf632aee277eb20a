// Package cloudsync moves the confirmation overlay between the local store
// and a shared remote progress row keyed by user id.
package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/onboard/internal/constants"
	apperrors "github.com/julianstephens/onboard/internal/errors"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/overlay"
	"github.com/julianstephens/onboard/internal/storage"
)

// ErrRemoteNotConfigured means progress is kept locally only.
var ErrRemoteNotConfigured = apperrors.WithHint(
	errors.New("remote progress store not configured"),
	"run 'onboard keyring set' or set "+constants.EnvRemoteDSN,
)

// Syncer serialises pulls and pushes for one user.
type Syncer struct {
	mu     sync.Mutex
	local  storage.KV
	remote storage.ProgressStore
	userID string
	now    func() time.Time
}

// New returns a syncer. remote may be nil, in which case every operation
// returns ErrRemoteNotConfigured.
func New(local storage.KV, remote storage.ProgressStore, userID string) *Syncer {
	return &Syncer{local: local, remote: remote, userID: userID, now: time.Now}
}

// Enabled reports whether a remote is configured.
func (s *Syncer) Enabled() bool {
	return s != nil && s.remote != nil
}

// LoadLocal reads the overlay from the local store. A missing key is an
// empty state.
func LoadLocal(ctx context.Context, kv storage.KV) (models.ConfirmationState, error) {
	raw, ok, err := kv.Get(ctx, constants.KeyConfirmations)
	if err != nil {
		return nil, fmt.Errorf("failed to read confirmations: %w", err)
	}
	state := models.ConfirmationState{}
	if !ok {
		return state, nil
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("corrupt confirmations: %w", err)
	}
	if state == nil {
		state = models.ConfirmationState{}
	}
	return state, nil
}

// SaveLocal writes the overlay in a single Set.
func SaveLocal(ctx context.Context, kv storage.KV, state models.ConfirmationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize confirmations: %w", err)
	}
	if err := kv.Set(ctx, constants.KeyConfirmations, string(data)); err != nil {
		return fmt.Errorf("failed to save confirmations: %w", err)
	}
	return nil
}

// Pull merges the remote row into the local overlay and returns the
// merged state. A user without a remote row leaves local state unchanged.
func (s *Syncer) Pull(ctx context.Context) (models.ConfirmationState, error) {
	if !s.Enabled() {
		return nil, ErrRemoteNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := LoadLocal(ctx, s.local)
	if err != nil {
		logger.Warn("Local confirmations unreadable, replacing with remote", "error", err)
		local = models.ConfirmationState{}
	}

	p, ok, err := s.remote.LoadProgress(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to pull progress: %w", err)
	}
	if !ok {
		logger.Debug("No remote progress yet", "user", s.userID)
		return local, nil
	}

	merged := overlay.Merge(local, p.Confirmations)
	if err := SaveLocal(ctx, s.local, merged); err != nil {
		return nil, err
	}
	logger.Info("Pulled progress", "user", s.userID, "remote", len(p.Confirmations), "merged", len(merged))
	return merged, nil
}

// Push merges state into the user's remote row and upserts it. Remote
// entries newer than the local ones survive, so a device that has not
// pulled cannot roll back another device's changes. Ties go to state.
func (s *Syncer) Push(ctx context.Context, state models.ConfirmationState) error {
	if !s.Enabled() {
		return ErrRemoteNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok, err := s.remote.LoadProgress(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to read remote progress before push: %w", err)
	}
	merged := state.Clone()
	if ok {
		merged = overlay.Merge(current.Confirmations, state)
	}

	p := models.Progress{UserID: s.userID, Confirmations: merged, UpdatedAt: s.now().UTC()}
	if err := s.remote.SaveProgress(ctx, p); err != nil {
		return fmt.Errorf("failed to push progress: %w", err)
	}
	logger.Debug("Pushed progress", "user", s.userID, "entries", len(merged))
	return nil
}
