// Package cli implements the slurmq command line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/slurmq/internal/config"
	"github.com/me/slurmq/internal/logging"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	cfg    config.Config
)

// NewRootCmd creates the root cobra command for the slurmq CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slurmq",
		Short: "slurmq is an admission-controlled Slurm job runner",
		Long: `slurmq submits batches of jobs to Slurm, keeps the number of
concurrently submitted jobs under a configured limit, and monitors them to
completion.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)

			cfg = config.Default()
			if flagConfig != "" {
				var err error
				cfg, err = config.Load(flagConfig)
				if err != nil {
					return err
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (YAML)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newHistoryCmd(),
	)

	return root
}
