package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/validation"
	"retailreports/pkg/contracts/domain"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot file",
		Example: `  export-report export --input snapshot.json --format pdf
  export-report demo | export-report export --input - --format all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formats, err := parseFormats(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := loadComponents(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			if input != "-" {
				if err := validation.NewFileValidator(c.Logger).ValidateSnapshotFile(input); err != nil {
					return err
				}
			}

			snapshot, err := readSnapshot(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			artifacts, err := c.ExportService.ExportAll(ctx, formats, snapshot)
			if err != nil {
				return err
			}

			return printArtifacts(cmd.OutOrStdout(), artifacts)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Snapshot JSON file, or - for stdin")
	cmd.Flags().StringVarP(&format, "format", "f", "all", "pdf, xlsx, csv, a comma separated list, or all")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// parseFormats accepts "all" or a comma separated list. nil means every
// format.
func parseFormats(value string) ([]domain.ReportFormat, error) {
	if strings.EqualFold(strings.TrimSpace(value), "all") {
		return nil, nil
	}

	var formats []domain.ReportFormat
	for _, name := range strings.Split(value, ",") {
		format, ok := domain.ParseReportFormat(strings.TrimSpace(name))
		if !ok {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported format %q", name))
		}
		formats = append(formats, format)
	}
	return formats, nil
}

func readSnapshot(stdin io.Reader, input string) (*domain.AnalyticsSnapshot, error) {
	var r io.Reader = stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	var snapshot domain.AnalyticsSnapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

func printArtifacts(w io.Writer, artifacts []*domain.ExportArtifact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tFILE\tSIZE\tLOCATION")
	for _, a := range artifacts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", a.Format, a.FileName, a.Size, a.Location)
	}
	return tw.Flush()
}
