package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"retailreports/internal/config"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := loadComponents(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			artifacts, err := c.ExportService.History(ctx, limit)
			if err != nil {
				return err
			}

			if len(artifacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No exports found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GENERATED\tFORMAT\tFILE\tSIZE\tPERIOD")
			for _, a := range artifacts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					a.GeneratedAt.Local().Format(time.DateTime), a.Format, a.FileName, a.Size, a.DateRange)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", config.DefaultHistoryLimit, "Number of exports to show")

	return cmd
}
