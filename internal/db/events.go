package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
)

const eventColumns = `id, title, category, date, start_time, end_time, color, is_expanded, created_at, updated_at`

// ListEvents returns events whose date falls within r (inclusive), ordered
// by start time. With no range the listing keeps the latest events up to the
// list limit.
func (s *SQLite) ListEvents(ctx context.Context, r *dateutil.DateRange) ([]*calendar.Event, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if r != nil {
		query := `SELECT ` + eventColumns + ` FROM events
			WHERE date >= ? AND date <= ?
			ORDER BY start_time`
		rows, err = s.db.QueryContext(ctx, query, formatDate(r.Start), formatDate(r.End))
	} else {
		query := `SELECT ` + eventColumns + ` FROM (
			SELECT ` + eventColumns + ` FROM events ORDER BY start_time DESC LIMIT ?
		) ORDER BY start_time`
		rows, err = s.db.QueryContext(ctx, query, s.listLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*calendar.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// GetEvent retrieves an event by ID.
func (s *SQLite) GetEvent(ctx context.Context, id string) (*calendar.Event, error) {
	return getEvent(ctx, s.db, id)
}

func getEvent(ctx context.Context, q queryer, id string) (*calendar.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, calendar.ErrEventNotFound)
	}
	return e, nil
}

// CreateEvent stores a new event and assigns its ID and timestamps.
func (s *SQLite) CreateEvent(ctx context.Context, e *calendar.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	now := s.now()
	e.ID = newID()
	e.Date = dateutil.TruncateToDay(e.Date)
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		e.Category,
		formatDate(e.Date),
		formatTimestamp(e.StartTime),
		formatTimestamp(e.EndTime),
		e.Color,
		boolToInt(e.IsExpanded),
		formatTimestamp(e.CreatedAt),
		formatTimestamp(e.UpdatedAt),
	)
	if err != nil {
		e.ID = ""
		return fmt.Errorf("inserting event: %w", err)
	}

	return nil
}

// UpdateEvent applies a partial update and returns the stored event.
func (s *SQLite) UpdateEvent(ctx context.Context, id string, patch calendar.EventPatch) (*calendar.Event, error) {
	var updated *calendar.Event
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		e, err := getEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(e); err != nil {
			return err
		}
		e.UpdatedAt = s.now()

		query := `
			UPDATE events
			SET title = ?, category = ?, date = ?, start_time = ?, end_time = ?,
			    color = ?, is_expanded = ?, updated_at = ?
			WHERE id = ?
		`
		_, err = tx.ExecContext(ctx, query,
			e.Title,
			e.Category,
			formatDate(e.Date),
			formatTimestamp(e.StartTime),
			formatTimestamp(e.EndTime),
			e.Color,
			boolToInt(e.IsExpanded),
			formatTimestamp(e.UpdatedAt),
			id,
		)
		if err != nil {
			return fmt.Errorf("updating event: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEvent removes an event.
func (s *SQLite) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return calendar.ErrEventNotFound
	}

	return nil
}

func scanEvent(row scanner) (*calendar.Event, error) {
	var (
		e          calendar.Event
		date       string
		start      string
		end        string
		isExpanded int
		createdAt  string
		updatedAt  string
	)

	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Category,
		&date,
		&start,
		&end,
		&e.Color,
		&isExpanded,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	if e.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parsing event date: %w", err)
	}
	if e.StartTime, err = parseTimestamp(start); err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if e.EndTime, err = parseTimestamp(end); err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if e.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	e.IsExpanded = isExpanded != 0

	return &e, nil
}
