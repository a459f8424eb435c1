package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/slurmq/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL mode so the history command can read while the manager writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "journal"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the journal table and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// JobAdded inserts the job's definition in the pending phase.
func (s *SQLiteStore) JobAdded(ctx context.Context, job *model.Job) error {
	s.logger.Debug("sql", "op", "insert", "job_id", job.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (job_id, description, command, cpus, memory, max_run_time, phase, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Description, job.Command, job.Cpus, job.Memory.String(), job.MaxRunTime,
		string(model.JobPending), string(model.OutcomeUnresolved),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// JobSubmitted records the scheduler id and marks the job submitted.
func (s *SQLiteStore) JobSubmitted(ctx context.Context, jobID string, slurmID int) error {
	s.logger.Debug("sql", "op", "update", "job_id", jobID, "slurm_id", slurmID)

	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET slurm_id = ?, phase = ?, submitted_at = ? WHERE job_id = ?`,
		slurmID, string(model.JobSubmitted),
		time.Now().UTC().Format(time.RFC3339Nano), jobID,
	)
	return err
}

// JobPhase updates the job's phase column.
func (s *SQLiteStore) JobPhase(ctx context.Context, jobID string, phase model.JobPhase) error {
	s.logger.Debug("sql", "op", "update", "job_id", jobID, "phase", phase)

	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET phase = ? WHERE job_id = ?`,
		string(phase), jobID,
	)
	return err
}

// JobResolved records the final outcome.
func (s *SQLiteStore) JobResolved(ctx context.Context, jobID string, outcome model.Outcome) error {
	s.logger.Debug("sql", "op", "update", "job_id", jobID, "outcome", outcome)

	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET phase = ?, outcome = ?, resolved_at = ? WHERE job_id = ?`,
		string(model.JobResolved), string(outcome),
		time.Now().UTC().Format(time.RFC3339Nano), jobID,
	)
	return err
}

// ListJobs returns all records in insertion order.
func (s *SQLiteStore) ListJobs(ctx context.Context) ([]*Record, error) {
	s.logger.Debug("sql", "op", "select")

	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, description, command, cpus, memory, max_run_time, slurm_id, phase, outcome, created_at, submitted_at, resolved_at
		 FROM jobs ORDER BY created_at, job_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetJob returns one record, or nil when the job is unknown.
func (s *SQLiteStore) GetJob(ctx context.Context, jobID string) (*Record, error) {
	s.logger.Debug("sql", "op", "select", "job_id", jobID)

	row := s.db.QueryRowContext(ctx,
		`SELECT job_id, description, command, cpus, memory, max_run_time, slurm_id, phase, outcome, created_at, submitted_at, resolved_at
		 FROM jobs WHERE job_id = ?`, jobID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var rec Record
	var createdAt string
	var submittedAt, resolvedAt sql.NullString

	err := sc.Scan(&rec.JobID, &rec.Description, &rec.Command, &rec.Cpus, &rec.Memory,
		&rec.MaxRunTime, &rec.SlurmID, &rec.Phase, &rec.Outcome,
		&createdAt, &submittedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.SubmittedAt, err = parseNullTime(submittedAt); err != nil {
		return nil, fmt.Errorf("parse submitted_at: %w", err)
	}
	if rec.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, fmt.Errorf("parse resolved_at: %w", err)
	}
	return &rec, nil
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
