package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Queue.AdmissionLimit != 1 {
		t.Errorf("default admission limit = %d, want 1", cfg.Queue.AdmissionLimit)
	}
	if cfg.Queue.PollInterval.Std() != 5*time.Second {
		t.Errorf("default poll interval = %v, want 5s", cfg.Queue.PollInterval.Std())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
db_path: ":memory:"
queue:
  admission_limit: 8
  poll_interval: 250ms
slurm:
  script_dir: /tmp/scripts
server:
  addr: ":9090"
  enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Queue.AdmissionLimit != 8 {
		t.Errorf("admission limit = %d, want 8", cfg.Queue.AdmissionLimit)
	}
	if cfg.Queue.PollInterval.Std() != 250*time.Millisecond {
		t.Errorf("poll interval = %v, want 250ms", cfg.Queue.PollInterval.Std())
	}
	if cfg.Slurm.ScriptDir != "/tmp/scripts" {
		t.Errorf("script dir = %q", cfg.Slurm.ScriptDir)
	}
	if !cfg.Server.Enabled || cfg.Server.Addr != ":9090" {
		t.Errorf("server config = %+v", cfg.Server)
	}
	// Unset fields keep their defaults.
	if cfg.LogFormat != "text" {
		t.Errorf("log format = %q, want default text", cfg.LogFormat)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "queue:\n  poll_interval: soon\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestLoad_InvalidLimit(t *testing.T) {
	path := writeConfig(t, "queue:\n  admission_limit: 0\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-positive admission limit")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
