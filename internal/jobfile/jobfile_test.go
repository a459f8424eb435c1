package jobfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	jobs, err := Parse([]byte(`
jobs:
  - command: "python train.py"
    description: training run
    working_directory: /data/run1
    cpus: 4
    memory: 8G
    max_run_time: 0-02:00:00
    env:
      OMP_NUM_THREADS: "4"
  - command: "echo done"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}

	first := jobs[0]
	if first.Command != "python train.py" {
		t.Errorf("command = %q", first.Command)
	}
	if first.Description != "training run" {
		t.Errorf("description = %q", first.Description)
	}
	if first.Cpus != 4 {
		t.Errorf("cpus = %d, want 4", first.Cpus)
	}
	if first.Memory.String() != "8G" {
		t.Errorf("memory = %s, want 8G", first.Memory)
	}
	if first.MaxRunTime != "0-02:00:00" {
		t.Errorf("max run time = %q", first.MaxRunTime)
	}
	if first.Env["OMP_NUM_THREADS"] != "4" {
		t.Errorf("env = %v", first.Env)
	}

	// Defaults apply to the minimal entry.
	second := jobs[1]
	if second.Cpus != 1 {
		t.Errorf("default cpus = %d, want 1", second.Cpus)
	}
	if second.OutputFile != "/dev/null" {
		t.Errorf("default output file = %q", second.OutputFile)
	}
	if first.ID == second.ID {
		t.Error("jobs must get distinct ids")
	}
}

func TestParse_InvalidEntryNamesIndex(t *testing.T) {
	_, err := Parse([]byte(`
jobs:
  - command: "echo ok"
  - command: "echo bad"
    memory: lots
`))
	if err == nil {
		t.Fatal("expected error for invalid memory")
	}
	if !strings.Contains(err.Error(), "job 1") {
		t.Errorf("error should name the failing entry, got: %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse([]byte("jobs: []\n")); err == nil {
		t.Error("expected error for empty job list")
	}
	if _, err := Parse([]byte("not yaml: [\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	content := "jobs:\n  - command: \"echo hi\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	jobs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Command != "echo hi" {
		t.Errorf("unexpected jobs: %+v", jobs)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
