package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/musage/internal/core"
)

type VectorRepo struct {
	db *sql.DB
}

func NewVectorRepo(db *sql.DB) *VectorRepo {
	return &VectorRepo{db: db}
}

func (r *VectorRepo) SaveVector(ctx context.Context, entry core.VectorEntry) error {
	vecBlob, err := serializeVector(entry.Embedding)
	if err != nil {
		return err
	}

	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal vector metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO vectors (content, metadata, embedding) VALUES (?, ?, ?)`,
		entry.Content, string(meta), vecBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vector: %w", err)
	}
	return nil
}

func (r *VectorRepo) ListVectors(ctx context.Context) ([]core.VectorEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, content, metadata, embedding FROM vectors ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer rows.Close()

	var entries []core.VectorEntry
	for rows.Next() {
		var e core.VectorEntry
		var meta string
		var blob []byte
		if err := rows.Scan(&e.ID, &e.Content, &meta, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan vector: %w", err)
		}
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal vector metadata: %w", err)
			}
		}
		if e.Embedding, err = deserializeVector(blob); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *VectorRepo) CountVectors(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return n, nil
}

func (r *VectorRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vectors`); err != nil {
		return fmt.Errorf("failed to clear vectors: %w", err)
	}
	return nil
}

// serializeVector converts a float32 slice to a LittleEndian byte slice.
func serializeVector(vec []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := binary.Write(buf, binary.LittleEndian, vec)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vector: %w", err)
	}
	return buf.Bytes(), nil
}

func deserializeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, vec); err != nil {
		return nil, fmt.Errorf("failed to deserialize vector: %w", err)
	}
	return vec, nil
}
