// Package commands holds the dairy CLI: the dashboard server plus offline
// export and chart rendering.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dairy-dashboard/config"
	"dairy-dashboard/dataset"
	"dairy-dashboard/logging"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	csvPath string
	verbose bool
)

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dairy",
		Short:        "EU dairy price dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if csvPath != "" {
				cfg.Data.CSVPath = csvPath
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err = logging.New(cfg.Logging)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&csvPath, "data", "", "path to the price CSV (overrides DAIRY_DATA_CSV_PATH)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(serveCmd(), exportCmd(), chartCmd())
	return root
}

// loadDataset reads the configured CSV. Any failure is fatal for the
// calling command.
func loadDataset() (*dataset.Dataset, error) {
	ds, err := dataset.Load(cfg.Data.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("Dataset loaded",
		zap.String("path", cfg.Data.CSVPath),
		zap.Int("records", ds.Len()),
		zap.Int("missing_prices", ds.Missing()))
	return ds, nil
}
