package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

const taskColumns = `id, name, goal_id, color, created_at, updated_at`

// ListTasks returns all tasks, or the tasks of goalID when it is set.
func (s *SQLite) ListTasks(ctx context.Context, goalID string) ([]*calendar.Task, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if goalID != "" {
		query := `SELECT ` + taskColumns + ` FROM tasks WHERE goal_id = ? ORDER BY created_at, id`
		rows, err = s.db.QueryContext(ctx, query, goalID)
	} else {
		query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*calendar.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id string) (*calendar.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, calendar.ErrTaskNotFound)
	}
	return t, nil
}

// CreateTask stores a new task. The goal must exist; a task without a
// color takes the goal's.
func (s *SQLite) CreateTask(ctx context.Context, t *calendar.Task) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return calendar.ErrEmptyName
	}
	if t.GoalID == "" {
		return calendar.ErrMissingGoal
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		goal, err := getGoal(ctx, tx, t.GoalID)
		if err != nil {
			return goalReference(err)
		}
		t.InheritColor(goal)

		now := s.now()
		t.ID = newID()
		t.CreatedAt = now
		t.UpdatedAt = now

		query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
		_, err = tx.ExecContext(ctx, query,
			t.ID, t.Name, t.GoalID, t.Color, formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt))
		if err != nil {
			t.ID = ""
			return fmt.Errorf("inserting task: %w", err)
		}
		return nil
	})
}

// UpdateTask applies a partial update. A goal change is checked against
// existing goals and re-syncs the color unless one is given.
func (s *SQLite) UpdateTask(ctx context.Context, id string, patch calendar.TaskPatch) (*calendar.Task, error) {
	var updated *calendar.Task
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
		t, err := scanTask(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return notFound(err, calendar.ErrTaskNotFound)
		}

		var goal *calendar.Goal
		if patch.ChangesGoal() {
			goal, err = getGoal(ctx, tx, strings.TrimSpace(*patch.GoalID))
			if err != nil {
				return goalReference(err)
			}
		}
		if err := patch.Apply(t, goal); err != nil {
			return err
		}
		t.UpdatedAt = s.now()

		_, err = tx.ExecContext(ctx,
			`UPDATE tasks SET name = ?, goal_id = ?, color = ?, updated_at = ? WHERE id = ?`,
			t.Name, t.GoalID, t.Color, formatTimestamp(t.UpdatedAt), id)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a single task.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return calendar.ErrTaskNotFound
	}

	return nil
}

// goalReference reports a missing goal as a referential error.
func goalReference(err error) error {
	if errors.Is(err, calendar.ErrGoalNotFound) {
		return calendar.ErrGoalReference
	}
	return err
}

func scanTask(row scanner) (*calendar.Task, error) {
	var (
		t         calendar.Task
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&t.ID, &t.Name, &t.GoalID, &t.Color, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	var err error
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &t, nil
}
