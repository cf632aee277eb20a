package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/onboard/internal/models"
)

func (s *Store) LoadProgress(ctx context.Context, userID string) (models.Progress, bool, error) {
	db, err := s.conn()
	if err != nil {
		return models.Progress{}, false, err
	}

	var raw []byte
	p := models.Progress{UserID: userID}
	err = db.QueryRowContext(ctx,
		"SELECT confirmations, updated_at FROM user_progress WHERE user_id = $1", userID,
	).Scan(&raw, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Progress{}, false, nil
	}
	if err != nil {
		return models.Progress{}, false, fmt.Errorf("failed to load progress for %s: %w", userID, err)
	}

	if err := json.Unmarshal(raw, &p.Confirmations); err != nil {
		return models.Progress{}, false, fmt.Errorf("corrupt progress for %s: %w", userID, err)
	}
	if p.Confirmations == nil {
		p.Confirmations = models.ConfirmationState{}
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
		INSERT INTO user_progress (user_id, confirmations, updated_at) VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (user_id) DO UPDATE SET confirmations = EXCLUDED.confirmations, updated_at = EXCLUDED.updated_at`,
		p.UserID, string(raw), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", p.UserID, err)
	}
	return nil
}
