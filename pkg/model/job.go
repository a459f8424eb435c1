package model

import "time"

// Job is an immutable description of one unit of work destined for Slurm.
// Build one with JobBuilder; the exported fields are for reading only.
type Job struct {
	ID               string
	Command          string
	Description      string
	WorkingDirectory string
	Env              map[string]string
	Cpus             int
	OutputFile       string
	ErrorFile        string

	// MaxRunTime is the Slurm time limit in d-hh:mm:ss form, empty when
	// the job runs without a limit. RunLimit is its parsed value.
	MaxRunTime string
	RunLimit   time.Duration

	Memory     Memory
	OnFinished *PostProcessing
}

// String returns the job's ID.
func (j *Job) String() string {
	return j.ID
}
