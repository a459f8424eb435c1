package slurm

import "fmt"

// SubmitError reports a failed sbatch invocation: either the tool could not
// run, or its response did not contain a job id. The queue manager treats it
// as transient and retries on the next iteration.
type SubmitError struct {
	Output string // raw sbatch output, set when the response was unparseable
	Err    error  // underlying error, set when sbatch could not run
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sbatch: %v", e.Err)
	}
	return fmt.Sprintf("sbatch: unexpected response %q", e.Output)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// QueryError reports a failed squeue invocation. The queue manager keeps the
// job's last known state and queries again on the next iteration.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("squeue: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
