package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskgrid/taskgrid/internal/config"
	"github.com/taskgrid/taskgrid/pkg/fleet"
	"github.com/taskgrid/taskgrid/pkg/input"
	"github.com/taskgrid/taskgrid/pkg/simulator"
)

func newSimulateCommand() *cobra.Command {
	cfg := config.DefaultConfig()
	var inputPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay task arrivals through the discrete-event simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			workers, err := loadFleet(cfg.Input.FleetFile, fleet.Tiered)
			if err != nil {
				return err
			}

			res, err := input.ReadFile(inputPath, input.Options{DefaultDuration: cfg.Input.DefaultDuration})
			if err != nil {
				return err
			}
			slog.Info("tasks loaded", "count", len(res.Tasks), "policy", cfg.Simulation.Policy)

			var policy simulator.Policy
			if cfg.Simulation.Policy == config.PolicyGRASP {
				policy, err = simulator.NewGRASPPolicy(cfg.Simulation.Alpha, cfg.Simulation.Seed, slog.Default())
				if err != nil {
					return err
				}
			} else {
				policy = simulator.NewGreedyPolicy()
			}

			sim, err := simulator.New(workers, policy, simulator.WithOutput(os.Stdout))
			if err != nil {
				return err
			}
			for _, t := range res.Tasks {
				sim.Add(t)
			}
			sim.Run(cfg.Simulation.EndTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "task CSV file")
	cmd.Flags().StringVar(&cfg.Simulation.Policy, "policy", cfg.Simulation.Policy, "re-scheduling policy: greedy or grasp")
	cmd.Flags().Float64Var(&cfg.Simulation.EndTime, "end-time", cfg.Simulation.EndTime, "simulation horizon in minutes")
	cmd.Flags().Float64Var(&cfg.Simulation.Alpha, "alpha", cfg.Simulation.Alpha, "RCL greediness for the grasp policy")
	cmd.Flags().Int64Var(&cfg.Simulation.Seed, "seed", cfg.Simulation.Seed, "PRNG seed for reproducible runs")
	cmd.Flags().StringVar(&cfg.Input.FleetFile, "fleet", cfg.Input.FleetFile, "YAML fleet file; defaults to the built-in tiered fleet")
	cmd.MarkFlagRequired("input")
	return cmd
}
