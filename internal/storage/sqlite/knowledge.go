package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/musage/internal/core"
)

type KnowledgeRepo struct {
	db *sql.DB
}

func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

func (r *KnowledgeRepo) SaveEntry(ctx context.Context, entry core.KnowledgeEntry) (int64, error) {
	usefulness := entry.Usefulness
	if usefulness == 0 {
		usefulness = 0.5
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO knowledge (query, content, source, title, usefulness) VALUES (?, ?, ?, ?, ?)`,
		entry.Query, entry.Content, entry.Source, entry.Title, usefulness,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert knowledge entry: %w", err)
	}
	return res.LastInsertId()
}

func (r *KnowledgeRepo) ListEntries(ctx context.Context) ([]core.KnowledgeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query, content, source, title, access_count, usefulness, created_at
		FROM knowledge ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge: %w", err)
	}
	defer rows.Close()

	var entries []core.KnowledgeEntry
	for rows.Next() {
		var e core.KnowledgeEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.Content, &e.Source, &e.Title, &e.AccessCount, &e.Usefulness, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *KnowledgeRepo) Touch(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE knowledge SET access_count = access_count + 1, last_accessed = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to touch knowledge entry: %w", err)
	}
	return nil
}

// RateByQuery folds score into the usefulness moving average of every entry
// recorded for query.
func (r *KnowledgeRepo) RateByQuery(ctx context.Context, query string, score float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE knowledge SET usefulness = 0.7 * usefulness + 0.3 * ? WHERE query = ?`, score, query)
	if err != nil {
		return fmt.Errorf("failed to rate knowledge: %w", err)
	}
	return nil
}

func (r *KnowledgeRepo) Stats(ctx context.Context) (core.KnowledgeStats, error) {
	var stats core.KnowledgeStats
	var avg sql.NullFloat64

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(usefulness) FROM knowledge`,
	).Scan(&stats.TotalEntries, &avg); err != nil {
		return stats, fmt.Errorf("failed to read knowledge stats: %w", err)
	}
	stats.AvgUsefulness = avg.Float64

	err := r.db.QueryRowContext(ctx,
		`SELECT query FROM knowledge ORDER BY access_count DESC, id ASC LIMIT 1`,
	).Scan(&stats.MostAccessed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats, fmt.Errorf("failed to read most accessed entry: %w", err)
	}

	return stats, nil
}

func (r *KnowledgeRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM knowledge`); err != nil {
		return fmt.Errorf("failed to clear knowledge: %w", err)
	}
	return nil
}
