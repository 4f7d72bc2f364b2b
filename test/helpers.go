// Package test holds helpers shared by tests across packages.
package test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandevgo/musage/internal/storage/sqlite"
)

// RuntimeDir points MUSAGE_RUNTIME_PATH at a fresh temporary directory.
func RuntimeDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MUSAGE_RUNTIME_PATH", dir)
	return dir
}

// OpenDB opens a migrated database in a temporary directory. It is closed
// when the test ends.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), filepath.Join(t.TempDir(), "musage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
