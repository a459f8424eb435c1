// Package journal persists job history so definitions, submissions, and final
// outcomes stay queryable after the managing process exits.
package journal

import (
	"context"
	"time"

	"github.com/me/slurmq/pkg/model"
)

// Record is one job's history row.
type Record struct {
	JobID       string     `json:"job_id"`
	Description string     `json:"description,omitempty"`
	Command     string     `json:"command"`
	Cpus        int        `json:"cpus"`
	Memory      string     `json:"memory"`
	MaxRunTime  string     `json:"max_run_time,omitempty"`
	SlurmID     int        `json:"slurm_id,omitempty"`
	Phase       string     `json:"phase"`
	Outcome     string     `json:"outcome"`
	CreatedAt   time.Time  `json:"created_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Recorder receives lifecycle events from the queue manager. Implementations
// must tolerate being called from the manager's monitoring loop; a failed
// write is logged by the manager, never propagated into scheduling.
type Recorder interface {
	// JobAdded records a job entering the queue in the pending phase.
	JobAdded(ctx context.Context, job *model.Job) error

	// JobSubmitted records the scheduler accepting a job.
	JobSubmitted(ctx context.Context, jobID string, slurmID int) error

	// JobPhase records a phase change observed by polling.
	JobPhase(ctx context.Context, jobID string, phase model.JobPhase) error

	// JobResolved records a job's final outcome.
	JobResolved(ctx context.Context, jobID string, outcome model.Outcome) error
}

// Store is a Recorder whose history can be read back.
type Store interface {
	Recorder

	ListJobs(ctx context.Context) ([]*Record, error)
	GetJob(ctx context.Context, jobID string) (*Record, error)

	Migrate(ctx context.Context) error
	Close() error
}
