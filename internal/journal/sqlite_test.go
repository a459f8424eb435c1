package journal

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/me/slurmq/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func buildJob(t *testing.T, command string) *model.Job {
	t.Helper()
	job, err := model.NewJobBuilder(command).Description("test job").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return job
}

// TestJournal_Lifecycle walks one job through add, submit, phase, resolve and
// verifies each step is visible when read back.
func TestJournal_Lifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	job := buildJob(t, "sleep 5")

	if err := st.JobAdded(ctx, job); err != nil {
		t.Fatalf("JobAdded: %v", err)
	}

	rec, err := st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if rec == nil {
		t.Fatal("record should exist after JobAdded")
	}
	if rec.Phase != string(model.JobPending) || rec.Outcome != string(model.OutcomeUnresolved) {
		t.Errorf("after add: phase=%s outcome=%s", rec.Phase, rec.Outcome)
	}
	if rec.Command != "sleep 5" || rec.Cpus != 1 || rec.Memory != "100M" {
		t.Errorf("definition not recorded: %+v", rec)
	}

	if err := st.JobSubmitted(ctx, job.ID, 4217); err != nil {
		t.Fatalf("JobSubmitted: %v", err)
	}
	rec, err = st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if rec.SlurmID != 4217 || rec.Phase != string(model.JobSubmitted) {
		t.Errorf("after submit: slurm_id=%d phase=%s", rec.SlurmID, rec.Phase)
	}
	if rec.SubmittedAt == nil {
		t.Error("submitted_at should be set")
	}

	if err := st.JobPhase(ctx, job.ID, model.JobRunning); err != nil {
		t.Fatalf("JobPhase: %v", err)
	}
	if err := st.JobResolved(ctx, job.ID, model.OutcomeSuccess); err != nil {
		t.Fatalf("JobResolved: %v", err)
	}

	rec, err = st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if rec.Phase != string(model.JobResolved) || rec.Outcome != string(model.OutcomeSuccess) {
		t.Errorf("after resolve: phase=%s outcome=%s", rec.Phase, rec.Outcome)
	}
	if rec.ResolvedAt == nil {
		t.Error("resolved_at should be set")
	}
}

// TestJournal_ListJobs verifies listing returns every recorded job.
func TestJournal_ListJobs(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first := buildJob(t, "echo one")
	second := buildJob(t, "echo two")
	if err := st.JobAdded(ctx, first); err != nil {
		t.Fatalf("JobAdded: %v", err)
	}
	if err := st.JobAdded(ctx, second); err != nil {
		t.Fatalf("JobAdded: %v", err)
	}

	records, err := st.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
}

// TestJournal_GetJobUnknown verifies a missing job yields nil, not an error.
func TestJournal_GetJobUnknown(t *testing.T) {
	st := testStore(t)
	rec, err := st.GetJob(context.Background(), "no-such-job")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}
