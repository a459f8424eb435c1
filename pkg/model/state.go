package model

// JobPhase represents the lifecycle phase of a managed job.
type JobPhase string

const (
	// JobPending: enqueued, not yet handed to Slurm.
	JobPending JobPhase = "PENDING"
	// JobSubmitted: accepted by sbatch, waiting in the Slurm queue.
	JobSubmitted JobPhase = "SUBMITTED"
	// JobRunning: observed running on the cluster.
	JobRunning JobPhase = "RUNNING"
	// JobCompleted: Slurm reports the job finished without error; post-processing pending.
	JobCompleted JobPhase = "COMPLETED"
	// JobFailed: Slurm reports the job failed; post-processing pending.
	JobFailed JobPhase = "FAILED"
	// JobResolved: post-processing ran (or none was attached) and the outcome is final.
	JobResolved JobPhase = "RESOLVED"
)

// String returns the string representation of the phase.
func (p JobPhase) String() string {
	return string(p)
}

// IsAdmitted returns true while the job occupies an admission slot with Slurm.
func (p JobPhase) IsAdmitted() bool {
	switch p {
	case JobSubmitted, JobRunning:
		return true
	}
	return false
}

// IsFinished returns true once Slurm is done with the job, whether or not
// post-processing has run yet.
func (p JobPhase) IsFinished() bool {
	switch p {
	case JobCompleted, JobFailed, JobResolved:
		return true
	}
	return false
}

// ValidJobTransitions defines the allowed phase transitions.
var ValidJobTransitions = map[JobPhase][]JobPhase{
	JobPending:   {JobSubmitted},
	JobSubmitted: {JobRunning, JobCompleted, JobFailed},
	JobRunning:   {JobCompleted, JobFailed},
	JobCompleted: {JobResolved},
	JobFailed:    {JobResolved},
}

// CanTransitionTo returns true if moving from the current phase to next is valid.
func (p JobPhase) CanTransitionTo(next JobPhase) bool {
	for _, allowed := range ValidJobTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Outcome is the final verdict on a job once it reaches JobResolved.
type Outcome string

const (
	OutcomeUnresolved Outcome = "UNRESOLVED"
	OutcomeSuccess    Outcome = "SUCCESS"
	OutcomeFailure    Outcome = "FAILURE"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}
