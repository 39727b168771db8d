package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// ErrInvalidConfig marks a scheduler configuration the run cannot start with
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Config holds the GRASP parameters
type Config struct {
	// Alpha controls construction greediness: 0 is pure greedy, 1 draws
	// uniformly over all feasible workers
	Alpha float64 `json:"alpha" yaml:"alpha"`
	// MaxIterations is the number of construct/improve restarts
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	// LocalSearchPasses bounds the swap search per iteration
	LocalSearchPasses int `json:"local_search_passes" yaml:"local_search_passes"`
	// Seed initialises the PRNG so runs are reproducible
	Seed int64 `json:"seed" yaml:"seed"`
	// Today anchors day-based deadline arithmetic; zero means time.Now
	Today time.Time `json:"-" yaml:"-"`
}

// Validate reports configuration the scheduler cannot start with
func (c Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v outside [0,1]", ErrInvalidConfig, c.Alpha)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations %d must be positive", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

// GRASP is the batch scheduler: a greedy randomised adaptive search procedure
// with multi-restart selection of the best-scoring solution
type GRASP struct {
	workers []*types.Worker
	cfg     Config
	rng     *rand.Rand
	eval    Evaluator
	logger  *slog.Logger
}

// NewGRASP creates a batch GRASP scheduler over the given fleet
func NewGRASP(workers []*types.Worker, cfg Config, logger *slog.Logger) (*GRASP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(workers) == 0 {
		return nil, fmt.Errorf("%w: empty fleet", ErrInvalidConfig)
	}
	if cfg.LocalSearchPasses <= 0 {
		cfg.LocalSearchPasses = DefaultLocalSearchPasses
	}
	if cfg.Today.IsZero() {
		cfg.Today = time.Now()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GRASP{
		workers: workers,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		eval:    NewBatchEvaluator(cfg.Today),
		logger:  logger,
	}, nil
}

// Schedule assigns the tasks across the fleet and returns the best solution
// found over MaxIterations restarts. Tasks no worker can accept are reported
// in the solution's Infeasible list, never as an error.
func (g *GRASP) Schedule(tasks []*types.Task) (*Solution, error) {
	var best *Solution
	for i := 0; i < g.cfg.MaxIterations; i++ {
		for _, w := range g.workers {
			w.Reset()
		}
		infeasible, err := rclAssign(g.workers, types.CloneTasks(tasks), g.cfg.Alpha, g.rng, loadScore, g.logger)
		if err != nil {
			return nil, err
		}
		if err := localSearch(g.workers, g.cfg.LocalSearchPasses); err != nil {
			return nil, err
		}
		score := g.eval.Score(g.workers)
		if best == nil || score > best.Score {
			best = snapshotSolution(g.workers, infeasible, score)
		}
	}
	return best, nil
}

// SimulateExecution replays the solution and reports due-date violations in
// days; see SimulateDeadlines
func (g *GRASP) SimulateExecution(sol *Solution) map[string]float64 {
	return SimulateDeadlines(sol, func(t *types.Task) float64 { return t.DeadlineDays(g.cfg.Today) })
}
