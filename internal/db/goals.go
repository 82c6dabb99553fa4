package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

const goalColumns = `id, name, color, created_at, updated_at`

// ListGoals returns all goals in creation order.
func (s *SQLite) ListGoals(ctx context.Context) ([]*calendar.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*calendar.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}

	return goals, nil
}

// GetGoal retrieves a goal by ID.
func (s *SQLite) GetGoal(ctx context.Context, id string) (*calendar.Goal, error) {
	return getGoal(ctx, s.db, id)
}

func getGoal(ctx context.Context, q queryer, id string) (*calendar.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`
	g, err := scanGoal(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, calendar.ErrGoalNotFound)
	}
	return g, nil
}

// CreateGoal stores a new goal and assigns its ID.
func (s *SQLite) CreateGoal(ctx context.Context, g *calendar.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	now := s.now()
	g.ID = newID()
	g.CreatedAt = now
	g.UpdatedAt = now

	query := `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.Name, g.Color, formatTimestamp(g.CreatedAt), formatTimestamp(g.UpdatedAt))
	if err != nil {
		g.ID = ""
		return fmt.Errorf("inserting goal: %w", err)
	}

	return nil
}

// UpdateGoal applies a partial update. When the color changes, every task
// of the goal takes the new color in the same transaction.
func (s *SQLite) UpdateGoal(ctx context.Context, id string, patch calendar.GoalPatch) (*calendar.Goal, error) {
	var updated *calendar.Goal
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		g, err := getGoal(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(g); err != nil {
			return err
		}
		g.UpdatedAt = s.now()
		updatedAt := formatTimestamp(g.UpdatedAt)

		_, err = tx.ExecContext(ctx,
			`UPDATE goals SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
			g.Name, g.Color, updatedAt, id)
		if err != nil {
			return fmt.Errorf("updating goal: %w", err)
		}

		if patch.ChangesColor() {
			_, err = tx.ExecContext(ctx,
				`UPDATE tasks SET color = ?, updated_at = ? WHERE goal_id = ?`,
				g.Color, updatedAt, id)
			if err != nil {
				return fmt.Errorf("cascading goal color to tasks: %w", err)
			}
		}

		updated = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGoal removes a goal and all of its tasks atomically.
func (s *SQLite) DeleteGoal(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := getGoal(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id = ?`, id); err != nil {
			return fmt.Errorf("deleting goal tasks: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting goal: %w", err)
		}

		return nil
	})
}

func scanGoal(row scanner) (*calendar.Goal, error) {
	var (
		g         calendar.Goal
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&g.ID, &g.Name, &g.Color, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning goal: %w", err)
	}

	var err error
	if g.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if g.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &g, nil
}
