package slurm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/me/slurmq/pkg/model"
)

// Commands renders the shell commands for a job. A working directory is
// entered with pushd and left with popd so relative output paths resolve
// inside it.
func Commands(job *model.Job) string {
	var b strings.Builder
	if job.WorkingDirectory != "" {
		fmt.Fprintf(&b, "pushd %s\n", job.WorkingDirectory)
	}
	b.WriteString(job.Command)
	b.WriteString("\n")
	if job.WorkingDirectory != "" {
		b.WriteString("popd\n")
	}
	return b.String()
}

// Script renders the full sbatch batch script for a job: the #SBATCH resource
// headers, environment exports, and the command wrapped in START/END stamps
// so the output log shows wall-clock boundaries.
func Script(job *model.Job) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "#SBATCH --job-name=%s\n", job.ID)
	if job.OutputFile != "" {
		fmt.Fprintf(&b, "#SBATCH --output=%s\n", job.OutputFile)
	}
	if job.ErrorFile != "" {
		fmt.Fprintf(&b, "#SBATCH --error=%s\n", job.ErrorFile)
	}
	fmt.Fprintf(&b, "#SBATCH --cpus-per-task=%d\n", job.Cpus)
	fmt.Fprintf(&b, "#SBATCH --mem=%s\n", job.Memory)
	if job.MaxRunTime != "" {
		fmt.Fprintf(&b, "#SBATCH --time=%s\n", job.MaxRunTime)
	}
	b.WriteString("\n")

	// Sorted so the script is stable for a given job.
	keys := make([]string, 0, len(job.Env))
	for k := range job.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%s\n", k, job.Env[k])
	}
	if len(keys) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("echo START: `date +%Y-%m-%dT%H:%M:%S%z`\n")
	b.WriteString(Commands(job))
	b.WriteString("echo END: `date +%Y-%m-%dT%H:%M:%S%z`\n")
	return b.String()
}
