package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/onboard/internal/models"
)

func (s *Store) LoadProgress(ctx context.Context, userID string) (models.Progress, bool, error) {
	db, err := s.conn()
	if err != nil {
		return models.Progress{}, false, err
	}

	var raw, updatedAt string
	err = db.QueryRowContext(ctx,
		"SELECT confirmations, updated_at FROM user_progress WHERE user_id = ?", userID,
	).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Progress{}, false, nil
	}
	if err != nil {
		return models.Progress{}, false, fmt.Errorf("failed to load progress for %s: %w", userID, err)
	}

	p := models.Progress{UserID: userID, Confirmations: models.ConfirmationState{}}
	if err := json.Unmarshal([]byte(raw), &p.Confirmations); err != nil {
		return models.Progress{}, false, fmt.Errorf("corrupt progress for %s: %w", userID, err)
	}
	if p.Confirmations == nil {
		p.Confirmations = models.ConfirmationState{}
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return models.Progress{}, false, fmt.Errorf("corrupt progress timestamp for %s: %w", userID, err)
	}
	return p, true, nil
}

func (s *Store) SaveProgress(ctx context.Context, p models.Progress) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(p.Confirmations.Clone())
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, confirmations, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET confirmations = excluded.confirmations, updated_at = excluded.updated_at`,
		p.UserID, string(raw), p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", p.UserID, err)
	}
	return nil
}
