package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

func (r *TurnsRepo) AddTurn(ctx context.Context, sessionID string, role core.Role, content string) error {
	query := `INSERT INTO turns (session_id, role, content) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, sessionID, string(role), content); err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

func (r *TurnsRepo) GetTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	// Fetch the LAST 'limit' turns by ordering DESC
	query := `SELECT id, session_id, role, content, created_at FROM turns WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		var role string
		if err := rows.Scan(&t.ID, &t.SessionID, &role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Role = core.Role(role)
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest -> Oldest back to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded session turns")
	return turns, nil
}

// CountTurns returns the number of turns in the session and the time of the
// first one. The time is zero for an empty session.
func (r *TurnsRepo) CountTurns(ctx context.Context, sessionID string) (int, time.Time, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE session_id = ?`, sessionID,
	).Scan(&count); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count turns: %w", err)
	}

	var started time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM turns WHERE session_id = ? ORDER BY id ASC LIMIT 1`, sessionID,
	).Scan(&started)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, fmt.Errorf("failed to read session start: %w", err)
	}

	return count, started, nil
}

// TrimTurns keeps only the newest 'keep' turns of every session.
func (r *TurnsRepo) TrimTurns(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM turns WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY session_id ORDER BY id DESC) AS rn
				FROM turns
			) WHERE rn > ?
		)`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim turns: %w", err)
	}
	return res.RowsAffected()
}

func (r *TurnsRepo) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session turns: %w", err)
	}
	return nil
}
