package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"retailreports/internal/infrastructure"
	"retailreports/internal/sample"
	"retailreports/internal/validation"
)

func newDemoCmd(root *rootOptions) *cobra.Command {
	var output string
	opts := sample.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a sample snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot := sample.NewGenerator(opts).Snapshot()

			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			data = append(data, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			logger := infrastructure.NewLogger(cmd.ErrOrStderr(), root.logLevel)
			if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(output)); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to stdout)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	cmd.Flags().IntVar(&opts.Transactions, "transactions", opts.Transactions, "Number of transactions")
	cmd.Flags().IntVar(&opts.Staff, "staff", opts.Staff, "Number of staff members")

	return cmd
}
