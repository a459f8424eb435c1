package journal

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the journal. Each statement uses IF NOT EXISTS
// so Migrate is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		job_id       TEXT PRIMARY KEY,
		description  TEXT NOT NULL DEFAULT '',
		command      TEXT NOT NULL,
		cpus         INTEGER NOT NULL,
		memory       TEXT NOT NULL,
		max_run_time TEXT NOT NULL DEFAULT '',
		slurm_id     INTEGER NOT NULL DEFAULT 0,
		phase        TEXT NOT NULL DEFAULT 'PENDING',
		outcome      TEXT NOT NULL DEFAULT 'UNRESOLVED',
		created_at   TEXT NOT NULL,
		submitted_at TEXT,
		resolved_at  TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_phase ON jobs(phase)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_outcome ON jobs(outcome)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
