package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/me/slurmq/internal/queue"
	"github.com/me/slurmq/internal/server"
	"github.com/me/slurmq/internal/slurm"
	"github.com/me/slurmq/pkg/model"
)

type idleClient struct{}

func (idleClient) Submit(context.Context, *model.Job) (slurm.JobID, error) {
	return 0, nil
}

func (idleClient) Query(context.Context, slurm.JobID) (slurm.State, error) {
	return slurm.StateCompleted, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startTestServer runs a status API over a manager holding one pending job
// and returns its URL together with the job's id.
func startTestServer(t *testing.T) (string, string) {
	t.Helper()
	mgr, err := queue.NewManager(idleClient{}, 1, queue.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	job, err := model.NewJobBuilder("echo cli").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := mgr.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	ts := httptest.NewServer(server.New(mgr, quietLogger()))
	t.Cleanup(ts.Close)
	return ts.URL, job.ID
}

func TestClient_GetJobs(t *testing.T) {
	url, jobID := startTestServer(t)
	c := NewClient(url, quietLogger())

	resp, err := c.Get("/api/v1/jobs")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var statuses []queue.JobStatus
	if err := json.Unmarshal(resp.Data, &statuses); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statuses) != 1 || statuses[0].JobID != jobID {
		t.Errorf("unexpected statuses: %+v", statuses)
	}
}

func TestClient_NotFoundSurfacesAPIError(t *testing.T) {
	url, _ := startTestServer(t)
	c := NewClient(url, quietLogger())

	_, err := c.Get("/api/v1/jobs/" + uuid.New().String())
	if err == nil {
		t.Fatal("expected error for unknown job")
	}
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrNotFound {
		t.Errorf("code = %s, want NOT_FOUND", apiErr.Code)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	want := map[string]bool{"run": false, "status": false, "history": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCmd_BadConfigFails(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"--config", "/does/not/exist.yaml", "status"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("expected error for missing config file")
	}
}
