package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS days (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE,
			target INTEGER NOT NULL DEFAULT 0,
			points TEXT NOT NULL DEFAULT '0'
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			day_id TEXT NULL,
			source_template_id TEXT NULL,
			title TEXT NOT NULL,

			points TEXT NOT NULL DEFAULT '0',
			completed_count INTEGER NOT NULL DEFAULT 0,
			target INTEGER NOT NULL DEFAULT 1,
			max_count INTEGER NOT NULL DEFAULT 1,
			reward TEXT NOT NULL DEFAULT '0',

			is_routine INTEGER DEFAULT 0,
			is_optional INTEGER DEFAULT 0,
			is_critical INTEGER DEFAULT 0,
			is_template INTEGER DEFAULT 0,

			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,

			CHECK (target >= 1),
			CHECK (max_count >= target),
			CHECK (completed_count >= 0 AND completed_count <= max_count),
			FOREIGN KEY(day_id) REFERENCES days(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_day_position ON tasks(day_id, position);`,
		// One materialized instance per (day, template).
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_day_source ON tasks(day_id, source_template_id) WHERE source_template_id IS NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_source ON tasks(source_template_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	alterStmts := []string{
		// Soft delete for templates.
		`ALTER TABLE tasks ADD COLUMN archived_at DATETIME;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
