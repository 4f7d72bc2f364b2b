package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type StateRepo struct {
	db *sql.DB
}

func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// LoadState returns nil when the session has no stored state yet.
func (r *StateRepo) LoadState(ctx context.Context, sessionID string) ([]byte, error) {
	var state string
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM dialogue_state WHERE session_id = ?`, sessionID,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dialogue state: %w", err)
	}
	return []byte(state), nil
}

func (r *StateRepo) SaveState(ctx context.Context, sessionID string, state []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dialogue_state (session_id, state) VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		sessionID, string(state),
	)
	if err != nil {
		return fmt.Errorf("failed to save dialogue state: %w", err)
	}
	return nil
}

func (r *StateRepo) DeleteState(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM dialogue_state WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete dialogue state: %w", err)
	}
	return nil
}
