package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/musage/internal/core"
)

type LearningRepo struct {
	db *sql.DB
}

func NewLearningRepo(db *sql.DB) *LearningRepo {
	return &LearningRepo{db: db}
}

// GetLearned returns nil without error when nothing was learned for query.
func (r *LearningRepo) GetLearned(ctx context.Context, query string) (*core.LearnedAnswer, error) {
	var a core.LearnedAnswer
	err := r.db.QueryRowContext(ctx, `
		SELECT query, answer, confidence, usage_count, learned_at, last_used
		FROM learned_answers WHERE query = ?`, query,
	).Scan(&a.Query, &a.Answer, &a.Confidence, &a.UsageCount, &a.LearnedAt, &a.LastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read learned answer: %w", err)
	}
	return &a, nil
}

func (r *LearningRepo) ListLearned(ctx context.Context, minConfidence float64) ([]core.LearnedAnswer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT query, answer, confidence, usage_count, learned_at, last_used
		FROM learned_answers WHERE confidence >= ? ORDER BY query ASC`, minConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to query learned answers: %w", err)
	}
	defer rows.Close()

	var out []core.LearnedAnswer
	for rows.Next() {
		var a core.LearnedAnswer
		if err := rows.Scan(&a.Query, &a.Answer, &a.Confidence, &a.UsageCount, &a.LearnedAt, &a.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan learned answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveLearned inserts a new answer or, for a known query, replaces the answer
// and bumps usage and confidence.
func (r *LearningRepo) SaveLearned(ctx context.Context, a core.LearnedAnswer) error {
	confidence := a.Confidence
	if confidence == 0 {
		confidence = 0.8
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learned_answers (query, answer, confidence)
		VALUES (?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			answer      = excluded.answer,
			usage_count = learned_answers.usage_count + 1,
			confidence  = MIN(1.0, learned_answers.confidence + 0.05),
			last_used   = CURRENT_TIMESTAMP`,
		a.Query, a.Answer, confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to save learned answer: %w", err)
	}
	return nil
}

func (r *LearningRepo) DeleteLearned(ctx context.Context, query string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM learned_answers WHERE query = ?`, query); err != nil {
		return fmt.Errorf("failed to delete learned answer: %w", err)
	}
	return nil
}

func (r *LearningRepo) MarkUsed(ctx context.Context, query string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE learned_answers SET usage_count = usage_count + 1, last_used = CURRENT_TIMESTAMP
		WHERE query = ?`, query)
	if err != nil {
		return fmt.Errorf("failed to mark learned answer used: %w", err)
	}
	return nil
}

func (r *LearningRepo) AddUsage(ctx context.Context, rec core.UsageRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_log (query, method, success, topic) VALUES (?, ?, ?, ?)`,
		rec.Query, rec.Method, rec.Success, rec.Topic,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

func (r *LearningRepo) AddFeedback(ctx context.Context, rec core.FeedbackRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (query, answer, helpful, comment) VALUES (?, ?, ?, ?)`,
		rec.Query, rec.Answer, rec.Helpful, rec.Comment,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

func (r *LearningRepo) Stats(ctx context.Context, topTopics int) (core.LearningStats, error) {
	stats := core.LearningStats{MethodCounts: map[string]int{}}

	if err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM usage_log),
			(SELECT COUNT(*) FROM learned_answers),
			(SELECT COUNT(*) FROM feedback WHERE helpful),
			(SELECT COUNT(*) FROM feedback WHERE NOT helpful)`,
	).Scan(&stats.TotalQueries, &stats.LearnedCount, &stats.PositiveFeedback, &stats.NegativeFeedback); err != nil {
		return stats, fmt.Errorf("failed to read learning totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT method, COUNT(*) FROM usage_log GROUP BY method`)
	if err != nil {
		return stats, fmt.Errorf("failed to query method counts: %w", err)
	}
	for rows.Next() {
		var method string
		var n int
		if err := rows.Scan(&method, &n); err != nil {
			rows.Close()
			return stats, fmt.Errorf("failed to scan method count: %w", err)
		}
		stats.MethodCounts[method] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT topic, COUNT(*) AS n FROM usage_log
		WHERE topic != '' GROUP BY topic ORDER BY n DESC, topic ASC LIMIT ?`, topTopics)
	if err != nil {
		return stats, fmt.Errorf("failed to query top topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc core.TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return stats, fmt.Errorf("failed to scan topic count: %w", err)
		}
		stats.TopTopics = append(stats.TopTopics, tc)
	}

	return stats, rows.Err()
}
