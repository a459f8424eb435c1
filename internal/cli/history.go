package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/slurmq/internal/journal"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [job-id]",
		Short: "Show persisted job history",
		Long: `history reads the job journal directly and prints past jobs with their
final outcomes, or the full record of one job when a job id is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := journal.NewSQLiteStore(cfg.DBPath, logger)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate journal: %w", err)
			}

			if len(args) == 1 {
				record, err := store.GetJob(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("job %s not found", args[0])
				}
				printRecord(record)
				return nil
			}

			records, err := store.ListJobs(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no job history")
				return nil
			}
			fmt.Printf("%-38s %-10s %-12s %-20s %s\n",
				"JOB", "PHASE", "OUTCOME", "CREATED", "COMMAND")
			for _, r := range records {
				fmt.Printf("%-38s %-10s %-12s %-20s %s\n",
					r.JobID, r.Phase, r.Outcome,
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Command)
			}
			return nil
		},
	}
	return cmd
}

func printRecord(r *journal.Record) {
	fmt.Printf("Job:         %s\n", r.JobID)
	if r.Description != "" {
		fmt.Printf("Description: %s\n", r.Description)
	}
	fmt.Printf("Command:     %s\n", r.Command)
	fmt.Printf("Cpus:        %d\n", r.Cpus)
	fmt.Printf("Memory:      %s\n", r.Memory)
	if r.MaxRunTime != "" {
		fmt.Printf("Max runtime: %s\n", r.MaxRunTime)
	}
	if r.SlurmID != 0 {
		fmt.Printf("Slurm id:    %d\n", r.SlurmID)
	}
	fmt.Printf("Phase:       %s\n", r.Phase)
	fmt.Printf("Outcome:     %s\n", r.Outcome)
	fmt.Printf("Created:     %s\n", r.CreatedAt.Local().Format(time.RFC3339))
	if r.SubmittedAt != nil {
		fmt.Printf("Submitted:   %s\n", r.SubmittedAt.Local().Format(time.RFC3339))
	}
	if r.ResolvedAt != nil {
		fmt.Printf("Resolved:    %s\n", r.ResolvedAt.Local().Format(time.RFC3339))
	}
}
