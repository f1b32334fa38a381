package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteFile = "carry.sqlite"

// SQLiteKV stores records in a single sqlite table.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV opens (and migrates) the sqlite database under basePath.
func NewSQLiteKV(basePath string) (*SQLiteKV, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(basePath, sqliteFile)+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes from this process ordered.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate sqlite: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

func (s *SQLiteKV) Read(key string) ([]byte, error) {
	var val []byte
	err := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *SQLiteKV) Write(key string, val []byte) error {
	_, err := s.db.Exec(`INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, val)
	return err
}

func (s *SQLiteKV) Erase(key string) error {
	res, err := s.db.Exec(`DELETE FROM records WHERE key = ?`, key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(key)
	}
	return nil
}

func (s *SQLiteKV) KeysPrefix(prefix string, cancel <-chan struct{}) <-chan string {
	keys := make([]string, 0)
	rows, err := s.db.Query(`SELECT key FROM records WHERE substr(key, 1, ?) = ? ORDER BY key`, len(prefix), prefix)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				break
			}
			keys = append(keys, k)
		}
	}
	return stream(keys, cancel)
}
