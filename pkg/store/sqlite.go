package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// DatabaseFile is the sqlite file name under the base path.
const DatabaseFile = "journal.db"

// LoadSQLite creates a Persistence backed by a sqlite database under the
// configured base path.
func LoadSQLite(cfg Config) (Persistence, error) {
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	dbPath := filepath.Join(basePath, DatabaseFile)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &journalStore{docs: &sqliteDocuments{db: db, basePath: basePath}}, nil
}

type sqliteDocuments struct {
	db       *sql.DB
	basePath string
}

func (s *sqliteDocuments) get(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return []byte(body), nil
}

// putAll upserts every document in one transaction.
func (s *sqliteDocuments) putAll(ctx context.Context, docs []document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for _, doc := range docs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
			doc.key, string(doc.body), now,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", doc.key, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteDocuments) erase(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotFound
	}
	return nil
}

func (s *sqliteDocuments) watchPath() string {
	return s.basePath
}

// keyForPath never resolves a single document; any write to the database
// invalidates the whole journal.
func (s *sqliteDocuments) keyForPath(string) string {
	return ""
}

func (s *sqliteDocuments) close() error {
	return s.db.Close()
}
