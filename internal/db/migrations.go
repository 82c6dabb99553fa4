package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL CHECK(length(trim(title)) > 0),
			category    TEXT NOT NULL CHECK(category IN ('exercise', 'eating', 'work', 'relax', 'family', 'social')),
			date        TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			color       TEXT NOT NULL DEFAULT '',
			is_expanded INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL,
			CHECK(end_time > start_time)
		);

		CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
		CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time);

		CREATE TABLE IF NOT EXISTS goals (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL CHECK(length(trim(name)) > 0),
			color      TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL CHECK(length(trim(name)) > 0),
			goal_id    TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
			color      TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_goal ON tasks(goal_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
