package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/taskgrid/taskgrid/pkg/input"
)

func newSplitCommand() *cobra.Command {
	var inputPath, outputDir string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Bucket a long-form task CSV by creation date",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := input.SplitByCreatedDate(inputPath, outputDir, slog.Default())
			if err != nil {
				return err
			}
			dates := make([]string, 0, len(counts))
			for date := range counts {
				dates = append(dates, date)
			}
			sort.Strings(dates)
			for _, date := range dates {
				fmt.Fprintf(os.Stdout, "Saved %d rows to %s/data_%s.csv\n", counts[date], outputDir, date)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "long-form task CSV file")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output_by_created_date", "directory for the per-date files")
	cmd.MarkFlagRequired("input")
	return cmd
}
