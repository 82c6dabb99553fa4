// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/dayplan/internal/calendar"
)

// timestampLayout stores instants in UTC with a fixed width so that
// string comparison in SQL matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// SQLite implements calendar.Repository using SQLite.
type SQLite struct {
	db        *sql.DB
	listLimit int
	now       func() time.Time
}

// Option configures a SQLite repository.
type Option func(*SQLite)

// WithListLimit caps unfiltered event listings.
func WithListLimit(n int) Option {
	return func(s *SQLite) {
		if n > 0 {
			s.listLimit = n
		}
	}
}

// WithClock replaces the clock used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *SQLite) { s.now = now }
}

// New creates a new SQLite repository and runs migrations.
func New(path string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, listLimit: calendar.DefaultListLimit, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// dsn enables foreign keys so the tasks.goal_id reference is enforced.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// inTx runs fn inside a transaction, committing only if fn succeeds.
func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func newID() string {
	return uuid.NewString()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp reads a stored instant back in local time.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
		}
	}
	return t.In(time.Local), nil
}

// formatDate stores the calendar day of t as seen in t's own location.
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite may hand DATE columns back as "2006-01-02T00:00:00Z"; keep the day, in local time.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// notFound converts sql.ErrNoRows into the given sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ calendar.Repository = (*SQLite)(nil)
