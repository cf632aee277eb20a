// Package session keeps the signed-in user in the local store. Login is a
// demo stub: there is no credential check.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/onboard/internal/constants"
	apperrors "github.com/julianstephens/onboard/internal/errors"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/storage"
)

// ErrNotAuthenticated gates every tracker command.
var ErrNotAuthenticated = apperrors.WithHint(errors.New("not logged in"), "run 'onboard login' first")

type Manager struct {
	kv storage.KV
}

func NewManager(kv storage.KV) *Manager {
	return &Manager{kv: kv}
}

// Current returns the stored user, or nil when logged out. A stored value
// that does not decode is removed and treated as logged out.
func (m *Manager) Current(ctx context.Context) (*models.User, error) {
	raw, ok, err := m.kv.Get(ctx, constants.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		logger.Warn("Discarding corrupt session", "error", err)
		if err := m.kv.Delete(ctx, constants.KeyUser); err != nil {
			return nil, fmt.Errorf("failed to clear corrupt session: %w", err)
		}
		return nil, nil
	}
	return &u, nil
}

// DemoUser returns the fixed demo account with a fresh token.
func DemoUser() *models.User {
	return &models.User{
		ID:    constants.DemoUserID,
		Name:  constants.DemoUserName,
		Token: uuid.NewString(),
	}
}

// Login stores u as the current user. A nil user logs in the demo account;
// missing fields of u are filled from it.
func (m *Manager) Login(ctx context.Context, u *models.User) (*models.User, error) {
	demo := DemoUser()
	if u == nil {
		u = demo
	}
	user := *u
	user.ID = strings.TrimSpace(user.ID)
	user.Name = strings.TrimSpace(user.Name)
	if user.ID == "" {
		user.ID = demo.ID
	}
	if user.Name == "" {
		user.Name = demo.Name
	}
	if user.Token == "" {
		user.Token = demo.Token
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := m.kv.Set(ctx, constants.KeyUser, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	logger.Info("Logged in", "user", user.ID)
	return &user, nil
}

// Logout clears the current user. Confirmation state is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, constants.KeyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	logger.Info("Logged out")
	return nil
}

// Require returns the current user or ErrNotAuthenticated.
func (m *Manager) Require(ctx context.Context) (*models.User, error) {
	u, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}
