package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"retailreports/internal/app"
	"retailreports/internal/config"
	"retailreports/internal/infrastructure"
	"retailreports/pkg/contracts"
)

type rootOptions struct {
	configFile string
	baseDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "export-report",
		Short:        "Render retail analytics snapshots to report files",
		Long:         "Render retail analytics snapshots to PDF, XLSX and CSV reports and inspect the export history.",
		Version:      contracts.GetFullVersionString(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (defaults to RETAIL_CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "Base directory for reports and the history database")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newDemoCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))

	return cmd
}

// loadComponents builds the export components for one CLI invocation.
// Logs go to stderr so stdout stays usable in pipelines.
func loadComponents(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app.Components, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.baseDir != "" {
		cfg.Paths.BaseDir = opts.baseDir
	}
	cfg.Telemetry.TraceStdout = false

	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), opts.logLevel)

	components, err := app.NewComponents(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return components, nil
}
