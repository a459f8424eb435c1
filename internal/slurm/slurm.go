// Package slurm is the boundary with the external batch scheduler. The queue
// manager consumes the Client interface; CLIClient implements it on top of the
// sbatch and squeue command-line tools.
package slurm

import (
	"context"

	"github.com/me/slurmq/pkg/model"
)

// JobID is the opaque identifier Slurm assigns on submission.
type JobID int

// State is a job's status as reported by the scheduler.
type State string

const (
	StatePending   State = "PENDING"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

// IsTerminal returns true once the scheduler is done with the job.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Client submits jobs to the scheduler and answers status queries.
type Client interface {
	// Submit hands a job to the scheduler and returns its id.
	Submit(ctx context.Context, job *model.Job) (JobID, error)

	// Query reports the current scheduler state of a submitted job.
	Query(ctx context.Context, id JobID) (State, error)
}
