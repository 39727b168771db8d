package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskgrid/taskgrid/internal/config"
	"github.com/taskgrid/taskgrid/pkg/fleet"
	"github.com/taskgrid/taskgrid/pkg/input"
	"github.com/taskgrid/taskgrid/pkg/report"
	"github.com/taskgrid/taskgrid/pkg/scheduler"
	"github.com/taskgrid/taskgrid/pkg/types"
)

func newBatchCommand() *cobra.Command {
	cfg := config.DefaultConfig()
	var inputPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Schedule a task file in one shot with GRASP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			workers, err := loadFleet(cfg.Input.FleetFile, fleet.Default)
			if err != nil {
				return err
			}

			res, err := input.ReadFile(inputPath, input.Options{DefaultDuration: cfg.Input.DefaultDuration})
			if err != nil {
				return err
			}
			slog.Info("tasks loaded", "count", len(res.Tasks))

			g, err := scheduler.NewGRASP(workers, scheduler.Config{
				Alpha:             cfg.Scheduler.Alpha,
				MaxIterations:     cfg.Scheduler.MaxIterations,
				LocalSearchPasses: cfg.Scheduler.LocalSearchPasses,
				Seed:              cfg.Scheduler.Seed,
			}, slog.Default())
			if err != nil {
				return err
			}

			sol, err := g.Schedule(res.Tasks)
			if err != nil {
				return err
			}

			report.WriteAssignments(os.Stdout, sol)
			report.WriteViolations(os.Stdout, g.SimulateExecution(sol))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "task CSV file")
	cmd.Flags().Float64Var(&cfg.Scheduler.Alpha, "alpha", cfg.Scheduler.Alpha, "RCL greediness in [0,1]; 0 is pure greedy")
	cmd.Flags().IntVar(&cfg.Scheduler.MaxIterations, "iterations", cfg.Scheduler.MaxIterations, "GRASP restarts")
	cmd.Flags().Int64Var(&cfg.Scheduler.Seed, "seed", cfg.Scheduler.Seed, "PRNG seed for reproducible runs")
	cmd.Flags().StringVar(&cfg.Input.FleetFile, "fleet", cfg.Input.FleetFile, "YAML fleet file; defaults to the built-in fleet")
	cmd.MarkFlagRequired("input")
	return cmd
}

// loadFleet builds the worker fleet from a YAML file, or falls back to the
// given built-in fleet
func loadFleet(path string, builtin func() []*types.Worker) ([]*types.Worker, error) {
	if path == "" {
		return builtin(), nil
	}
	return fleet.LoadFile(path)
}
