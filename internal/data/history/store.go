package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName   = "sqlite"
	maxAttempts  = 5
	defaultLimit = 20
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL keep a concurrent `history` reader from failing writes.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Record(run MergeRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.RunID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	lastEdited := ""
	if !run.LastEdited.IsZero() {
		lastEdited = run.LastEdited.UTC().Format(time.RFC3339Nano)
	}

	query := `
INSERT INTO merge_runs (
  run_id, ts_utc, source_root, output_path, status, failure_kind, last_edited_utc,
  file_count, namespace_count, import_count, duration_ns, error_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry("record merge run", func() error {
		_, err := s.db.Exec(
			query,
			run.RunID,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.SourceRoot,
			run.OutputPath,
			run.Status,
			run.FailureKind,
			lastEdited,
			run.Files,
			run.Namespaces,
			run.Imports,
			int64(run.Duration),
			run.Error,
		)
		return err
	})
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]MergeRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
SELECT
  id, run_id, ts_utc, source_root, output_path, status, failure_kind, last_edited_utc,
  file_count, namespace_count, import_count, duration_ns, error_text
FROM merge_runs
ORDER BY ts_utc DESC, id DESC
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry("load merge runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]MergeRun, 0)
	for rows.Next() {
		var (
			tsRaw         string
			lastEditedRaw string
			durationNS    int64
			run           MergeRun
		)
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&tsRaw,
			&run.SourceRoot,
			&run.OutputPath,
			&run.Status,
			&run.FailureKind,
			&lastEditedRaw,
			&run.Files,
			&run.Namespaces,
			&run.Imports,
			&durationNS,
			&run.Error,
		); err != nil {
			return nil, fmt.Errorf("scan merge run: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse merge run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts
		if lastEditedRaw != "" {
			le, err := time.Parse(time.RFC3339Nano, lastEditedRaw)
			if err != nil {
				return nil, fmt.Errorf("parse last edited timestamp %q: %w", lastEditedRaw, err)
			}
			run.LastEdited = le
		}
		run.Duration = time.Duration(durationNS)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merge runs: %w", err)
	}
	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
