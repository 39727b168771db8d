package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/taskgrid/taskgrid/pkg/input"
	"github.com/taskgrid/taskgrid/pkg/scheduler"
)

// Policy names accepted by the simulator
const (
	PolicyGreedy = "greedy"
	PolicyGRASP  = "grasp"
)

// Config holds the application configuration
type Config struct {
	Scheduler  SchedulerConfig  `json:"scheduler" yaml:"scheduler"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Input      InputConfig      `json:"input" yaml:"input"`
}

// SchedulerConfig holds batch scheduling configuration
type SchedulerConfig struct {
	Alpha             float64 `json:"alpha" yaml:"alpha"`
	MaxIterations     int     `json:"max_iterations" yaml:"max_iterations"`
	LocalSearchPasses int     `json:"local_search_passes" yaml:"local_search_passes"`
	Seed              int64   `json:"seed" yaml:"seed"`
}

// SimulationConfig holds online simulation configuration
type SimulationConfig struct {
	Policy  string  `json:"policy" yaml:"policy"`
	EndTime float64 `json:"end_time" yaml:"end_time"`
	Alpha   float64 `json:"alpha" yaml:"alpha"`
	Seed    int64   `json:"seed" yaml:"seed"`
}

// InputConfig holds task ingestion configuration
type InputConfig struct {
	DefaultDuration float64 `json:"default_duration" yaml:"default_duration"`
	FleetFile       string  `json:"fleet_file" yaml:"fleet_file"`
}

// DefaultConfig returns a default configuration with environment overrides
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			Alpha:             getEnvFloatOrDefault("TASKGRID_ALPHA", 0.2),
			MaxIterations:     getEnvIntOrDefault("TASKGRID_ITERATIONS", 100),
			LocalSearchPasses: getEnvIntOrDefault("TASKGRID_SEARCH_PASSES", scheduler.DefaultLocalSearchPasses),
			Seed:              int64(getEnvIntOrDefault("TASKGRID_SEED", 0)),
		},
		Simulation: SimulationConfig{
			Policy:  getEnvOrDefault("TASKGRID_POLICY", PolicyGreedy),
			EndTime: getEnvFloatOrDefault("TASKGRID_END_TIME", 8*60),
			Alpha:   getEnvFloatOrDefault("TASKGRID_ALPHA", 0.3),
			Seed:    int64(getEnvIntOrDefault("TASKGRID_SEED", 0)),
		},
		Input: InputConfig{
			DefaultDuration: getEnvFloatOrDefault("TASKGRID_DEFAULT_DURATION", input.DefaultDuration),
			FleetFile:       getEnvOrDefault("TASKGRID_FLEET_FILE", ""),
		},
	}
}

// Validate reports fatal configuration problems
func (c *Config) Validate() error {
	if c.Scheduler.Alpha < 0 || c.Scheduler.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v outside [0,1]", scheduler.ErrInvalidConfig, c.Scheduler.Alpha)
	}
	if c.Scheduler.MaxIterations <= 0 {
		return fmt.Errorf("%w: iterations %d must be positive", scheduler.ErrInvalidConfig, c.Scheduler.MaxIterations)
	}
	if c.Simulation.Alpha < 0 || c.Simulation.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v outside [0,1]", scheduler.ErrInvalidConfig, c.Simulation.Alpha)
	}
	if c.Simulation.EndTime <= 0 {
		return fmt.Errorf("%w: end time %v must be positive", scheduler.ErrInvalidConfig, c.Simulation.EndTime)
	}
	if c.Simulation.Policy != PolicyGreedy && c.Simulation.Policy != PolicyGRASP {
		return fmt.Errorf("%w: unknown policy %q", scheduler.ErrInvalidConfig, c.Simulation.Policy)
	}
	return nil
}

// Helper functions to get environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
