package model

import (
	"time"

	"github.com/google/uuid"
)

// JobBuilder accumulates job configuration through chained setters and
// validates it at Build. A zero cpu count, missing command, non-positive
// memory, or malformed run time is reported as a *BuildError.
type JobBuilder struct {
	command          string
	description      string
	workingDirectory string
	env              map[string]string
	cpus             int
	outputFile       string
	errorFile        string
	maxRunTime       string
	memory           Memory
	onFinished       *PostProcessing
}

// NewJobBuilder starts a builder for a job running the given command.
// Defaults: 1 cpu, 100M of memory, stdout/stderr discarded to /dev/null,
// no run time limit, no post-processing.
func NewJobBuilder(command string) *JobBuilder {
	return &JobBuilder{
		command:    command,
		env:        make(map[string]string),
		cpus:       1,
		outputFile: "/dev/null",
		errorFile:  "/dev/null",
		memory:     MB(100),
	}
}

// Description sets a human-readable description.
func (b *JobBuilder) Description(desc string) *JobBuilder {
	b.description = desc
	return b
}

// WorkingDirectory sets the directory the command runs in.
func (b *JobBuilder) WorkingDirectory(dir string) *JobBuilder {
	b.workingDirectory = dir
	return b
}

// Env adds one environment variable exported before the command runs.
func (b *JobBuilder) Env(key, value string) *JobBuilder {
	b.env[key] = value
	return b
}

// Cpus sets the number of cpus requested per task.
func (b *JobBuilder) Cpus(n int) *JobBuilder {
	b.cpus = n
	return b
}

// OutputFile sets the path stdout is redirected to.
func (b *JobBuilder) OutputFile(path string) *JobBuilder {
	b.outputFile = path
	return b
}

// ErrorFile sets the path stderr is redirected to.
func (b *JobBuilder) ErrorFile(path string) *JobBuilder {
	b.errorFile = path
	return b
}

// MaxRunTime sets the Slurm time limit in d-hh:mm:ss form.
func (b *JobBuilder) MaxRunTime(limit string) *JobBuilder {
	b.maxRunTime = limit
	return b
}

// Memory sets the memory ceiling.
func (b *JobBuilder) Memory(m Memory) *JobBuilder {
	b.memory = m
	return b
}

// OnFinished attaches a post-processing handler run once after the job's
// terminal Slurm state is observed.
func (b *JobBuilder) OnFinished(p *PostProcessing) *JobBuilder {
	b.onFinished = p
	return b
}

// Build validates the configuration and produces an immutable Job with a
// fresh uuid. All validation problems are reported together.
func (b *JobBuilder) Build() (*Job, error) {
	var fields []FieldError

	if b.command == "" {
		fields = append(fields, FieldError{Field: "command", Message: "must not be empty"})
	}
	if b.cpus <= 0 {
		fields = append(fields, FieldError{Field: "cpus", Message: "must be positive"})
	}
	if !b.memory.IsPositive() {
		fields = append(fields, FieldError{Field: "memory", Message: "must be positive"})
	}

	var runLimit time.Duration
	if b.maxRunTime != "" {
		d, err := ParseRunTime(b.maxRunTime)
		if err != nil {
			fields = append(fields, FieldError{Field: "max_run_time", Message: err.Error()})
		}
		runLimit = d
	}

	if len(fields) > 0 {
		return nil, NewBuildError(fields...)
	}

	env := make(map[string]string, len(b.env))
	for k, v := range b.env {
		env[k] = v
	}

	return &Job{
		ID:               uuid.New().String(),
		Command:          b.command,
		Description:      b.description,
		WorkingDirectory: b.workingDirectory,
		Env:              env,
		Cpus:             b.cpus,
		OutputFile:       b.outputFile,
		ErrorFile:        b.errorFile,
		MaxRunTime:       b.maxRunTime,
		RunLimit:         runLimit,
		Memory:           b.memory,
		OnFinished:       b.onFinished,
	}, nil
}
