package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskgrid/taskgrid/pkg/input"
	"github.com/taskgrid/taskgrid/pkg/scheduler"
)

var version = "1.0.0-dev"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	rootCmd := &cobra.Command{
		Use:   "taskgrid",
		Short: "GRASP task assignment for heterogeneous worker fleets",
		Long: `taskgrid assigns tasks to a fleet of heterogeneous workers, balancing
load, priority satisfaction and deadline adherence under capability tier,
region and capacity constraints.

Two operating modes are available: a batch mode that schedules a known task
list in one shot using GRASP, and an online mode that replays task arrivals
through a discrete-event simulator with a greedy or GRASP re-scheduling
policy.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Schedule a task file in one shot
  taskgrid batch --input tasks.csv --alpha 0.2 --iterations 100

  # Replay arrivals through the simulator for 48 hours
  taskgrid simulate --input tasks.csv --policy grasp --end-time 2880

  # Bucket a task file by creation date
  taskgrid split --input data.csv --output-dir output_by_created_date`,
	}

	rootCmd.AddCommand(newBatchCommand())
	rootCmd.AddCommand(newSimulateCommand())
	rootCmd.AddCommand(newSplitCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("taskgrid failed", "error", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error classes to the documented exit codes: 2 for invalid
// configuration, 1 for fatal input failures and anything else
func exitCode(err error) int {
	if errors.Is(err, scheduler.ErrInvalidConfig) {
		return 2
	}
	if errors.Is(err, input.ErrRead) {
		return 1
	}
	return 1
}
