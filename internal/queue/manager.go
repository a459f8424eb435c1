// Package queue implements the admission-controlled job queue manager. It
// holds every job the caller has enqueued, keeps at most a fixed number of
// them submitted to Slurm at once, polls the scheduler for progress, and runs
// each job's post-processing exactly once after its terminal state is seen.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/me/slurmq/internal/journal"
	"github.com/me/slurmq/internal/metrics"
	"github.com/me/slurmq/internal/slurm"
	"github.com/me/slurmq/pkg/model"
)

// DefaultPollInterval is the sleep between monitoring iterations.
const DefaultPollInterval = 5 * time.Second

// managedJob pairs a job definition with its mutable tracking state. Entries
// are owned by the Manager and guarded by its mutex; they are never handed
// out to callers.
type managedJob struct {
	job     *model.Job
	phase   model.JobPhase
	slurmID slurm.JobID
	outcome model.Outcome

	// submitting marks an entry whose sbatch call is in flight, so a second
	// monitoring loop can never double-submit it.
	submitting     bool
	submitAttempts int
}

// JobStatus is a point-in-time view of one managed job.
type JobStatus struct {
	JobID       string          `json:"job_id"`
	Description string          `json:"description,omitempty"`
	Phase       model.JobPhase  `json:"phase"`
	SlurmID     slurm.JobID     `json:"slurm_id,omitempty"`
	Outcome     model.Outcome   `json:"outcome"`
}

// Option configures optional Manager dependencies.
type Option func(*Manager)

// WithPollInterval overrides the sleep between monitoring iterations.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) { m.pollInterval = d }
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger.With("component", "queue") }
}

// WithJournal attaches a recorder that receives every lifecycle event.
// Journal failures are logged, never propagated into scheduling.
func WithJournal(rec journal.Recorder) Option {
	return func(m *Manager) { m.journal = rec }
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// Manager is the job queue manager. The caller may keep adding jobs while
// Manage runs in another goroutine; the collection mutex is held only for
// collection reads and mutations, never across a Slurm call, a handler
// invocation, or the inter-iteration sleep.
type Manager struct {
	client       slurm.Client
	limit        int
	pollInterval time.Duration
	logger       *slog.Logger
	journal      journal.Recorder
	metrics      *metrics.Collector
	sleep        func(ctx context.Context, d time.Duration) bool

	mu    sync.Mutex
	jobs  []*managedJob // insertion order; admission follows it
	index map[string]*managedJob
}

// NewManager creates a Manager submitting through client with at most limit
// jobs admitted to Slurm at once. Fails if limit is not positive.
func NewManager(client slurm.Client, limit int, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("scheduler client must not be nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("admission limit must be positive, got %d", limit)
	}

	m := &Manager{
		client:       client,
		limit:        limit,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default().With("component", "queue"),
		sleep:        sleepContext,
		index:        make(map[string]*managedJob),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// AddJob appends a job to the queue in the pending phase. Safe to call
// before, between, or concurrently with a running Manage loop. Adding a job
// that is already managed is an error.
func (m *Manager) AddJob(job *model.Job) error {
	m.mu.Lock()
	if _, exists := m.index[job.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job %s is already managed", job.ID)
	}
	entry := &managedJob{
		job:     job,
		phase:   model.JobPending,
		outcome: model.OutcomeUnresolved,
	}
	m.jobs = append(m.jobs, entry)
	m.index[job.ID] = entry
	m.mu.Unlock()

	m.metrics.JobEnqueued()
	m.logger.Debug("job enqueued", "job_id", job.ID)
	m.record("add", func() error { return m.journal.JobAdded(context.Background(), job) })
	return nil
}

// AddJobs appends a batch of jobs in order, stopping at the first error.
func (m *Manager) AddJobs(jobs []*model.Job) error {
	for _, job := range jobs {
		if err := m.AddJob(job); err != nil {
			return err
		}
	}
	return nil
}

// Manage runs the monitoring loop until every known job is resolved, in which
// case it returns true, or until ctx is done, in which case it returns false
// with all progress preserved; a later call resumes from the current state.
// Already-submitted jobs are not aborted by an early return; they keep
// running under Slurm and are reconciled by the next call.
func (m *Manager) Manage(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			return m.allResolved()
		}
		m.Tick(ctx)
		if m.allResolved() {
			return true
		}
		if !m.sleep(ctx, m.pollInterval) {
			return false
		}
	}
}

// ManageFor runs Manage with a deadline of d from now.
func (m *Manager) ManageFor(ctx context.Context, d time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return m.Manage(ctx)
}

// Tick runs a single monitoring iteration: admission, then reconciliation,
// then resolution. Exported so tests can drive the manager deterministically.
func (m *Manager) Tick(ctx context.Context) {
	m.admitPending(ctx)
	m.reconcileAdmitted(ctx)
	m.resolveFinished(ctx)
	m.publishDepth()
}

// admitPending submits pending jobs in enqueue order while admission slots
// remain. A submission failure leaves the job pending; it is retried on the
// next iteration.
func (m *Manager) admitPending(ctx context.Context) {
	for {
		m.mu.Lock()
		if m.admittedLocked() >= m.limit {
			m.mu.Unlock()
			return
		}
		entry := m.firstPendingLocked()
		if entry == nil {
			m.mu.Unlock()
			return
		}
		entry.submitting = true
		job := entry.job
		m.mu.Unlock()

		slurmID, err := m.client.Submit(ctx, job)

		m.mu.Lock()
		entry.submitting = false
		if err != nil {
			entry.submitAttempts++
			attempts := entry.submitAttempts
			m.mu.Unlock()
			m.metrics.SubmitError()
			// sbatch trouble is rarely job-specific; stop admitting until
			// the next iteration instead of walking down the queue.
			m.logger.Warn("submit failed, job stays pending",
				"job_id", job.ID, "attempts", attempts, "error", err)
			return
		}
		entry.slurmID = slurmID
		entry.phase = model.JobSubmitted
		m.mu.Unlock()

		m.metrics.JobSubmitted()
		m.logger.Info("job admitted", "job_id", job.ID, "slurm_id", int(slurmID))
		m.record("submit", func() error {
			return m.journal.JobSubmitted(ctx, job.ID, int(slurmID))
		})
	}
}

// reconcileAdmitted queries every submitted or running job and maps the
// scheduler's answer onto the job's phase. A query failure keeps the last
// known phase.
func (m *Manager) reconcileAdmitted(ctx context.Context) {
	m.mu.Lock()
	admitted := make([]*managedJob, 0, m.limit)
	for _, entry := range m.jobs {
		if entry.phase.IsAdmitted() {
			admitted = append(admitted, entry)
		}
	}
	m.mu.Unlock()

	for _, entry := range admitted {
		state, err := m.client.Query(ctx, entry.slurmID)
		if err != nil {
			m.metrics.QueryError()
			m.logger.Warn("query failed, keeping last known phase",
				"job_id", entry.job.ID, "slurm_id", int(entry.slurmID), "error", err)
			continue
		}

		next := phaseForState(state)

		m.mu.Lock()
		changed := entry.phase != next && entry.phase.CanTransitionTo(next)
		if changed {
			entry.phase = next
		}
		m.mu.Unlock()

		if changed {
			m.logger.Info("job state changed",
				"job_id", entry.job.ID, "slurm_id", int(entry.slurmID), "phase", next)
			m.record("phase", func() error {
				return m.journal.JobPhase(ctx, entry.job.ID, next)
			})
		}
	}
}

// resolveFinished runs post-processing for every job whose terminal scheduler
// state was just observed and fixes its final outcome. The handler result is
// ANDed with the scheduler's own verdict: a check returning false downgrades
// a completed job to a failure, while nothing can upgrade a failed one.
func (m *Manager) resolveFinished(ctx context.Context) {
	type finished struct {
		entry       *managedJob
		schedulerOK bool
	}

	m.mu.Lock()
	var done []finished
	for _, entry := range m.jobs {
		switch entry.phase {
		case model.JobCompleted:
			done = append(done, finished{entry, true})
		case model.JobFailed:
			done = append(done, finished{entry, false})
		}
	}
	m.mu.Unlock()

	for _, f := range done {
		checkOK := true
		if handler := f.entry.job.OnFinished; handler != nil {
			checkOK = handler.Check()
		}

		outcome := model.OutcomeFailure
		if f.schedulerOK && checkOK {
			outcome = model.OutcomeSuccess
		}

		m.mu.Lock()
		f.entry.outcome = outcome
		f.entry.phase = model.JobResolved
		m.mu.Unlock()

		if f.schedulerOK && !checkOK {
			m.logger.Warn("post-processing rejected an apparently successful run",
				"job_id", f.entry.job.ID)
		}
		m.metrics.JobResolved(string(outcome))
		m.logger.Info("job resolved", "job_id", f.entry.job.ID, "outcome", outcome)
		m.record("resolve", func() error {
			return m.journal.JobResolved(ctx, f.entry.job.ID, outcome)
		})
	}
}

// publishDepth refreshes the pending/admitted gauges.
func (m *Manager) publishDepth() {
	if m.metrics == nil {
		return
	}
	m.mu.Lock()
	pending := 0
	for _, entry := range m.jobs {
		if entry.phase == model.JobPending {
			pending++
		}
	}
	admitted := m.admittedLocked()
	m.mu.Unlock()
	m.metrics.SetQueueDepth(pending, admitted)
}

// Outcome returns the final outcome of a job, or false when the job is
// unknown. An unresolved job reports OutcomeUnresolved.
func (m *Manager) Outcome(jobID string) (model.Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.index[jobID]
	if !ok {
		return "", false
	}
	return entry.outcome, true
}

// Phase returns the current lifecycle phase of a job.
func (m *Manager) Phase(jobID string) (model.JobPhase, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.index[jobID]
	if !ok {
		return "", false
	}
	return entry.phase, true
}

// Snapshot returns a point-in-time view of every managed job in enqueue
// order.
func (m *Manager) Snapshot() []JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]JobStatus, len(m.jobs))
	for i, entry := range m.jobs {
		out[i] = JobStatus{
			JobID:       entry.job.ID,
			Description: entry.job.Description,
			Phase:       entry.phase,
			SlurmID:     entry.slurmID,
			Outcome:     entry.outcome,
		}
	}
	return out
}

// SuccessCount returns the number of jobs resolved as successful.
func (m *Manager) SuccessCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entry := range m.jobs {
		if entry.outcome == model.OutcomeSuccess {
			n++
		}
	}
	return n
}

// allResolved reports whether every known job has a final outcome. An empty
// queue is vacuously resolved.
func (m *Manager) allResolved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.jobs {
		if entry.phase != model.JobResolved {
			return false
		}
	}
	return true
}

// admittedLocked counts jobs holding an admission slot. Caller holds m.mu.
func (m *Manager) admittedLocked() int {
	n := 0
	for _, entry := range m.jobs {
		if entry.phase.IsAdmitted() || entry.submitting {
			n++
		}
	}
	return n
}

// firstPendingLocked returns the earliest-enqueued pending job not already
// being submitted, or nil. Caller holds m.mu.
func (m *Manager) firstPendingLocked() *managedJob {
	for _, entry := range m.jobs {
		if entry.phase == model.JobPending && !entry.submitting {
			return entry
		}
	}
	return nil
}

// record runs a journal write and logs a failure instead of propagating it.
func (m *Manager) record(op string, fn func() error) {
	if m.journal == nil {
		return
	}
	if err := fn(); err != nil {
		m.logger.Error("journal write failed", "op", op, "error", err)
	}
}

// phaseForState maps a scheduler state onto a job phase.
func phaseForState(state slurm.State) model.JobPhase {
	switch state {
	case slurm.StateRunning:
		return model.JobRunning
	case slurm.StateCompleted:
		return model.JobCompleted
	case slurm.StateFailed:
		return model.JobFailed
	default:
		// Still queued on the scheduler side.
		return model.JobSubmitted
	}
}

// sleepContext sleeps for d, returning false early if ctx is done.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
