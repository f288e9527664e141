// Package sqlite provides SQLite storage for bundle execution history,
// network samples and dashboard preferences.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory history that is lost on Close.
const MemoryPath = ":memory:"

// busyTimeoutMs is how long a writer waits on a lock held by another
// bundlewatch process (dashboard vs. record or prune).
const busyTimeoutMs = 5000

// DB is the history database shared by the execution, network and
// preference stores.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens the history database at path, creating parent directories and
// the schema as needed.
func Open(path string) (*DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dsn(path, memory))
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if memory {
		// Each connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, path: path}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	return db, nil
}

// dsn adds the go-sqlite3 connection options. File databases use WAL so the
// dashboard can read while record and prune write.
func dsn(path string, memory bool) string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(busyTimeoutMs))
	q.Set("_foreign_keys", "on")
	if !memory {
		q.Set("_journal_mode", "WAL")
	}
	return path + "?" + q.Encode()
}

func (db *DB) init() error {
	if err := db.conn.Ping(); err != nil {
		return err
	}
	return db.initSchema()
}

// inTx runs fn in a transaction, committing when fn returns nil.
func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Path returns the path the database was opened with.
func (db *DB) Path() string {
	return db.path
}
