// Package config loads the slurmq configuration from YAML with defaults for
// everything that is not set.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5s" or "2m" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// QueueConfig controls the admission-controlled queue manager.
type QueueConfig struct {
	AdmissionLimit int      `yaml:"admission_limit"` // max jobs submitted to Slurm at once
	PollInterval   Duration `yaml:"poll_interval"`   // sleep between monitoring iterations
}

// SlurmConfig controls the sbatch/squeue adapter.
type SlurmConfig struct {
	ScriptDir string `yaml:"script_dir"` // where generated batch scripts are written
}

// ServerConfig controls the optional status HTTP server.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

// Config is the root configuration.
type Config struct {
	LogLevel  string       `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string       `yaml:"log_format"` // text, json
	DBPath    string       `yaml:"db_path"`    // job journal, ":memory:" for testing
	Queue     QueueConfig  `yaml:"queue"`
	Slurm     SlurmConfig  `yaml:"slurm"`
	Server    ServerConfig `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    "slurmq.db",
		Queue: QueueConfig{
			AdmissionLimit: 1,
			PollInterval:   Duration(5 * time.Second),
		},
		Slurm: SlurmConfig{
			ScriptDir: ".",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Queue.AdmissionLimit <= 0 {
		return fmt.Errorf("queue.admission_limit must be positive, got %d", c.Queue.AdmissionLimit)
	}
	if c.Queue.PollInterval <= 0 {
		return fmt.Errorf("queue.poll_interval must be positive")
	}
	return nil
}
