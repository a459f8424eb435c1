package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/slurmq/internal/config"
	"github.com/me/slurmq/internal/jobfile"
	"github.com/me/slurmq/internal/journal"
	"github.com/me/slurmq/internal/metrics"
	"github.com/me/slurmq/internal/queue"
	"github.com/me/slurmq/internal/server"
	"github.com/me/slurmq/internal/slurm"
	"github.com/me/slurmq/pkg/model"
)

func newRunCmd() *cobra.Command {
	var (
		limit   int
		poll    time.Duration
		timeout time.Duration
		serve   bool
	)

	cmd := &cobra.Command{
		Use:   "run <job-file>",
		Short: "Submit a batch of jobs and monitor them to completion",
		Long: `run reads job definitions from a YAML file, enqueues them, and runs the
monitoring loop until every job is resolved or the timeout elapses. Exits
non-zero when any job fails or the timeout is hit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit > 0 {
				cfg.Queue.AdmissionLimit = limit
			}
			if poll > 0 {
				cfg.Queue.PollInterval = config.Duration(poll)
			}
			return runBatch(cmd.Context(), args[0], timeout, serve)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Admission limit (max jobs on Slurm at once)")
	cmd.Flags().DurationVar(&poll, "poll-interval", 0, "Sleep between monitoring iterations")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 = no limit)")
	cmd.Flags().BoolVar(&serve, "serve", false, "Expose the status API while jobs run")

	return cmd
}

func runBatch(ctx context.Context, jobPath string, timeout time.Duration, serve bool) error {
	jobs, err := jobfile.Load(jobPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := slurm.NewCLIClient(cfg.Slurm.ScriptDir, logger)
	collector := metrics.NewCollector()

	opts := []queue.Option{
		queue.WithLogger(logger),
		queue.WithPollInterval(cfg.Queue.PollInterval.Std()),
		queue.WithMetrics(collector),
	}

	var store journal.Store
	if cfg.DBPath != "" {
		store, err = journal.NewSQLiteStore(cfg.DBPath, logger)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate journal: %w", err)
		}
		opts = append(opts, queue.WithJournal(store))
	}

	mgr, err := queue.NewManager(client, cfg.Queue.AdmissionLimit, opts...)
	if err != nil {
		return err
	}
	if err := mgr.AddJobs(jobs); err != nil {
		return err
	}
	logger.Info("batch loaded",
		"jobs", len(jobs), "limit", cfg.Queue.AdmissionLimit, "file", jobPath)

	if serve {
		srvOpts := []server.Option{server.WithMetrics(collector)}
		if store != nil {
			srvOpts = append(srvOpts, server.WithHistory(store))
		}
		srv := server.New(mgr, logger, srvOpts...)
		go func() {
			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				logger.Error("status API stopped", "error", err)
			}
		}()
	}

	var done bool
	if timeout > 0 {
		done = mgr.ManageFor(ctx, timeout)
	} else {
		done = mgr.Manage(ctx)
	}

	printSummary(mgr)
	if !done {
		return fmt.Errorf("stopped with unresolved jobs")
	}
	if failed := len(jobs) - mgr.SuccessCount(); failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

func printSummary(mgr *queue.Manager) {
	for _, s := range mgr.Snapshot() {
		label := s.Description
		if label == "" {
			label = s.JobID
		}
		marker := " "
		switch s.Outcome {
		case model.OutcomeSuccess:
			marker = "+"
		case model.OutcomeFailure:
			marker = "-"
		}
		fmt.Printf("%s %-40s %-10s %s\n", marker, label, s.Phase, s.Outcome)
	}
}
