package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps published version history in a local SQLite database. It
// satisfies Publisher, so it can stand alone or run alongside a production
// tracking client.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS versions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project TEXT NOT NULL,
    version_name TEXT NOT NULL,
    display_title TEXT NOT NULL,
    artist TEXT NOT NULL DEFAULT '',
    task TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    output_path TEXT NOT NULL,
    engine TEXT NOT NULL,
    frame_start INTEGER NOT NULL,
    frame_end INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_versions_project ON versions(project, created_at);
`

// OpenStore opens (creating if needed) the history database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Publish appends one version record to the history.
func (s *Store) Publish(ctx context.Context, record VersionRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO versions (project, version_name, display_title, artist, task, description,
    output_path, engine, frame_start, frame_end, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.Project, record.VersionName, record.DisplayTitle, record.Artist,
			record.Task, record.Description, record.OutputPath, record.Engine,
			record.FrameStart, record.FrameEnd, record.Duration.Milliseconds(),
			createdAt.Format(time.RFC3339Nano))
		return err
	})
}

// List returns the most recent records, newest first. A non-empty project
// filters the history to that project; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, project string, limit int) ([]VersionRecord, error) {
	query := `
SELECT id, project, version_name, display_title, artist, task, description,
    output_path, engine, frame_start, frame_end, duration_ms, created_at
FROM versions`
	var args []any
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []VersionRecord
	for rows.Next() {
		var (
			record     VersionRecord
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&record.ID, &record.Project, &record.VersionName,
			&record.DisplayTitle, &record.Artist, &record.Task, &record.Description,
			&record.OutputPath, &record.Engine, &record.FrameStart, &record.FrameEnd,
			&durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		record.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			record.CreatedAt = parsed
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
