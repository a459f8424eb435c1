package slurm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/me/slurmq/pkg/model"
)

// squeueFormat lists the columns requested from squeue. Only the job id and
// the state code are consumed; the remaining columns keep the output aligned
// with what operators see when they run squeue by hand.
const squeueFormat = "%.i %.P %.j %.u %.t %.M %.D %R"

// runFunc executes an external command and returns its stdout. It exists so
// tests can script sbatch/squeue behavior without forking.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CLIClient implements Client by driving the sbatch and squeue command-line
// tools. One squeue invocation serves all Query calls within cacheTTL, so
// polling N in-flight jobs costs one fork per interval rather than N.
type CLIClient struct {
	scriptDir string
	logger    *slog.Logger
	run       runFunc
	cacheTTL  time.Duration

	mu       sync.Mutex
	polledAt time.Time
	queue    map[JobID]State
	finished map[JobID]State
}

// NewCLIClient creates a client writing batch scripts under scriptDir.
// If scriptDir is empty, os.TempDir() is used.
func NewCLIClient(scriptDir string, logger *slog.Logger) *CLIClient {
	if scriptDir == "" {
		scriptDir = os.TempDir()
	}
	return &CLIClient{
		scriptDir: scriptDir,
		logger:    logger.With("component", "slurm-client"),
		run:       runCommand,
		cacheTTL:  time.Second,
		finished:  make(map[JobID]State),
	}
}

// Submit writes the job's batch script and hands it to sbatch. The job id is
// the trailing token of sbatch's "Submitted batch job N" response.
func (c *CLIClient) Submit(ctx context.Context, job *model.Job) (JobID, error) {
	scriptPath := filepath.Join(c.scriptDir, job.ID+".slurm")
	if err := os.WriteFile(scriptPath, []byte(Script(job)), 0o644); err != nil {
		return 0, &SubmitError{Err: fmt.Errorf("write script: %w", err)}
	}

	out, err := c.run(ctx, "sbatch", scriptPath)
	if err != nil {
		return 0, &SubmitError{Err: err}
	}

	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) == 0 {
		return 0, &SubmitError{Output: string(out)}
	}
	id, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, &SubmitError{Output: string(out)}
	}

	c.logger.Info("job submitted", "job_id", job.ID, "slurm_id", id)
	return JobID(id), nil
}

// Query reports the scheduler state of a submitted job. A terminal state seen
// in squeue is remembered, so a failed job keeps reporting failed after it
// leaves the queue. A job absent from squeue with no remembered state has left
// the queue without incident; the client reports it as completed and leaves
// the success verdict to post-processing.
func (c *CLIClient) Query(ctx context.Context, id JobID) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.polledAt) > c.cacheTTL || c.queue == nil {
		queue, err := c.pollQueue(ctx)
		if err != nil {
			return "", err
		}
		c.queue = queue
		c.polledAt = time.Now()
	}

	if state, ok := c.queue[id]; ok {
		if state.IsTerminal() {
			c.finished[id] = state
		}
		return state, nil
	}
	if state, ok := c.finished[id]; ok {
		return state, nil
	}
	return StateCompleted, nil
}

// pollQueue runs squeue once and indexes the caller's jobs by id. A row that
// does not parse fails the whole poll: dropping it would make its job look
// absent from the queue, and absence means completed.
func (c *CLIClient) pollQueue(ctx context.Context) (map[JobID]State, error) {
	out, err := c.run(ctx, "squeue", "--me", "--format", squeueFormat)
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	queue := make(map[JobID]State)
	rows := strings.Split(string(out), "\n")
	for i, row := range rows {
		if i == 0 || strings.TrimSpace(row) == "" {
			continue // header or trailing blank
		}
		id, state, err := parseSqueueRow(row)
		if err != nil {
			return nil, &QueryError{Err: err}
		}
		queue[id] = state
	}
	return queue, nil
}

// parseSqueueRow extracts the job id and state from one squeue output row.
// The trailing reason column can contain spaces, so rows may have more than
// the eight requested columns.
func parseSqueueRow(row string) (JobID, State, error) {
	fields := strings.Fields(row)
	if len(fields) < 8 {
		return 0, "", fmt.Errorf("unexpected squeue row %q: want 8 columns, got %d", row, len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("unexpected squeue row %q: job id %q is not numeric", row, fields[0])
	}
	return JobID(id), mapStateCode(fields[4]), nil
}

// mapStateCode converts a squeue state code to a State.
func mapStateCode(code string) State {
	switch code {
	case "PD", "CF":
		return StatePending
	case "R", "CG", "S":
		return StateRunning
	case "CD":
		return StateCompleted
	case "F", "TO", "OOM", "NF", "BF", "CA", "DL", "PR":
		return StateFailed
	default:
		// Unknown codes mean the job is still in the queue.
		return StateRunning
	}
}
