package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/slurmq/internal/queue"
)

// defaultServer returns the default status API URL, checking the
// SLURMQ_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("SLURMQ_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func newStatusCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show the queue of a running slurmq instance",
		Long: `status queries the status API of a slurmq process started with --serve and
prints its queue, or a single job when a job id is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(serverURL, logger)

			if len(args) == 1 {
				resp, err := client.Get("/api/v1/jobs/" + args[0])
				if err != nil {
					return fmt.Errorf("get job: %w", err)
				}
				var status queue.JobStatus
				if err := json.Unmarshal(resp.Data, &status); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
				printStatuses([]queue.JobStatus{status})
				return nil
			}

			resp, err := client.Get("/api/v1/jobs")
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			var statuses []queue.JobStatus
			if err := json.Unmarshal(resp.Data, &statuses); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			if len(statuses) == 0 {
				fmt.Println("queue is empty")
				return nil
			}
			printStatuses(statuses)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServer(),
		"Status API URL (or SLURMQ_SERVER env)")

	return cmd
}

func printStatuses(statuses []queue.JobStatus) {
	fmt.Printf("%-38s %-10s %-12s %s\n", "JOB", "PHASE", "OUTCOME", "DESCRIPTION")
	for _, s := range statuses {
		fmt.Printf("%-38s %-10s %-12s %s\n", s.JobID, s.Phase, s.Outcome, s.Description)
	}
}
