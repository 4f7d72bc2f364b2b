// Package sqlite registers the sqlite3 driver variant used by the storage
// layer. Every new connection gets the same pragmas applied.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3_musage"

var connectPragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, p := range connectPragmas {
				if _, err := conn.Exec(p, nil); err != nil {
					return fmt.Errorf("failed to apply %q: %w", p, err)
				}
			}
			return nil
		},
	})
}
