// Package jobfile reads YAML job definition files and turns them into
// validated jobs.
package jobfile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/me/slurmq/pkg/model"
)

// Spec is one job entry in a job file. Only Command is required.
type Spec struct {
	Command          string            `yaml:"command"`
	Description      string            `yaml:"description"`
	WorkingDirectory string            `yaml:"working_directory"`
	Cpus             int               `yaml:"cpus"`
	Memory           string            `yaml:"memory"`       // e.g. "500M", "8G"
	MaxRunTime       string            `yaml:"max_run_time"` // d-hh:mm:ss
	OutputFile       string            `yaml:"output_file"`
	ErrorFile        string            `yaml:"error_file"`
	Env              map[string]string `yaml:"env"`
}

// File is the top-level job file layout.
type File struct {
	Jobs []Spec `yaml:"jobs"`
}

// Load reads a job file and builds every entry, failing on the first invalid
// one with its index in the error.
func Load(path string) ([]*model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return Parse(data)
}

// Parse builds jobs from raw YAML job file content.
func Parse(data []byte) ([]*model.Job, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("job file defines no jobs")
	}

	jobs := make([]*model.Job, 0, len(f.Jobs))
	for i, spec := range f.Jobs {
		job, err := build(spec)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func build(spec Spec) (*model.Job, error) {
	b := model.NewJobBuilder(spec.Command)
	if spec.Description != "" {
		b.Description(spec.Description)
	}
	if spec.WorkingDirectory != "" {
		b.WorkingDirectory(spec.WorkingDirectory)
	}
	if spec.Cpus != 0 {
		b.Cpus(spec.Cpus)
	}
	if spec.Memory != "" {
		mem, err := model.ParseMemory(spec.Memory)
		if err != nil {
			return nil, err
		}
		b.Memory(mem)
	}
	if spec.MaxRunTime != "" {
		b.MaxRunTime(spec.MaxRunTime)
	}
	if spec.OutputFile != "" {
		b.OutputFile(spec.OutputFile)
	}
	if spec.ErrorFile != "" {
		b.ErrorFile(spec.ErrorFile)
	}
	// Sorted for deterministic job definitions.
	keys := make([]string, 0, len(spec.Env))
	for k := range spec.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Env(k, spec.Env[k])
	}
	return b.Build()
}
