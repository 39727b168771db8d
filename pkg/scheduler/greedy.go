package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// Greedy is the deterministic batch scheduler: one construction pass that
// always places a task on the least-loaded feasible worker. GRASP with alpha
// zero produces the same assignment before local search.
type Greedy struct {
	workers []*types.Worker
	today   time.Time
	logger  *slog.Logger
}

// NewGreedy creates a pure-greedy batch scheduler over the given fleet
func NewGreedy(workers []*types.Worker, today time.Time, logger *slog.Logger) (*Greedy, error) {
	if len(workers) == 0 {
		return nil, fmt.Errorf("%w: empty fleet", ErrInvalidConfig)
	}
	if today.IsZero() {
		today = time.Now()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Greedy{workers: workers, today: today, logger: logger}, nil
}

// Schedule assigns the tasks in a single greedy pass
func (g *Greedy) Schedule(tasks []*types.Task) (*Solution, error) {
	for _, w := range g.workers {
		w.Reset()
	}
	infeasible, err := rclAssign(g.workers, types.CloneTasks(tasks), 0, nil, loadScore, g.logger)
	if err != nil {
		return nil, err
	}
	eval := NewBatchEvaluator(g.today)
	return snapshotSolution(g.workers, infeasible, eval.Score(g.workers)), nil
}

// SimulateExecution replays the solution and reports due-date violations in
// days; see SimulateDeadlines
func (g *Greedy) SimulateExecution(sol *Solution) map[string]float64 {
	return SimulateDeadlines(sol, func(t *types.Task) float64 { return t.DeadlineDays(g.today) })
}
