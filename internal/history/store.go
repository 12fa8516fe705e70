// Package history keeps a SQLite log of analysis runs so the best match
// length of a pattern survives between invocations.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cheerioskun/matchninja/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded analysis.
type Run struct {
	ID              int64
	ReportID        string
	Pattern         string
	NumTokens       int
	BestMatchLength int
	Candidates      int64
	FullMatches     int64
	Source          string
	CreatedAt       time.Time
}

// Best is the high-water mark of a pattern across runs.
type Best struct {
	Pattern         string
	NumTokens       int
	BestMatchLength int
	Runs            int
	LastRun         time.Time
}

// Store manages the run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// DefaultPath is the history database location under the user's config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "matchninja", "history.db")
}

// Open opens or creates the database at dbPath. ":memory:" gives a
// private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the outcome of an analysis and returns the row id.
func (s *Store) Record(ctx context.Context, r *models.Report) (int64, error) {
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (report_id, pattern, num_tokens, best_match_length, candidates, full_matches, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Pattern, len(r.Tokens), r.BestMatchLength, r.Candidates, r.FullMatches, r.Source, created.UTC())
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// Best returns the longest match recorded for pattern, or nil when the
// pattern has never been recorded.
func (s *Store) Best(ctx context.Context, pattern string) (*Best, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(best_match_length), 0), COALESCE(MAX(num_tokens), 0), MAX(created_at)
		 FROM runs WHERE pattern = ?`, pattern)

	b := &Best{Pattern: pattern}
	var last sql.NullString
	if err := row.Scan(&b.Runs, &b.BestMatchLength, &b.NumTokens, &last); err != nil {
		return nil, fmt.Errorf("query best: %w", err)
	}
	if b.Runs == 0 {
		return nil, nil
	}
	if last.Valid {
		b.LastRun = parseTime(last.String)
	}
	return b, nil
}

// Recent returns up to limit runs, newest first. limit <= 0 means all.
// A non-empty pattern restricts the result to that pattern.
func (s *Store) Recent(ctx context.Context, pattern string, limit int) ([]Run, error) {
	query := `SELECT id, report_id, pattern, num_tokens, best_match_length, candidates, full_matches, source, created_at FROM runs`
	var args []interface{}
	if pattern != "" {
		query += ` WHERE pattern = ?`
		args = append(args, pattern)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ReportID, &r.Pattern, &r.NumTokens, &r.BestMatchLength,
			&r.Candidates, &r.FullMatches, &r.Source, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Clear deletes all runs, or only those of pattern when it is non-empty.
// It returns the number of deleted rows.
func (s *Store) Clear(ctx context.Context, pattern string) (int64, error) {
	var res sql.Result
	var err error
	if pattern == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM runs`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM runs WHERE pattern = ?`, pattern)
	}
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

// parseTime reads the aggregate timestamp, which go-sqlite3 returns as
// text since MAX() loses the column's declared type.
func parseTime(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
