package scheduler

import (
	"time"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// Evaluator scores a fleet state. The objective rewards balanced load
// (negative makespan), assigned priority weight, and on-time projected
// completions; higher is better.
type Evaluator struct {
	// Now is the clock value projected completions start from
	Now float64
	// DeadlineOf converts a task's deadline into the run's clock unit
	DeadlineOf func(*types.Task) float64
}

// NewBatchEvaluator returns an evaluator for batch runs: the clock starts at
// zero and deadlines are expressed in days from today
func NewBatchEvaluator(today time.Time) Evaluator {
	return Evaluator{
		Now:        0,
		DeadlineOf: func(t *types.Task) float64 { return t.DeadlineDays(today) },
	}
}

// Score evaluates the queues currently held by the workers
func (e Evaluator) Score(workers []*types.Worker) float64 {
	var makespan, priorityBonus, deadlineBonus float64
	for _, w := range workers {
		if w.CurrentLoad > makespan {
			makespan = w.CurrentLoad
		}
		completion := e.Now
		for _, t := range w.Queue {
			priorityBonus += t.Priority.Weight()
			completion += t.EstimatedDuration
			if completion <= e.DeadlineOf(t) {
				deadlineBonus++
			}
		}
	}
	return -makespan + priorityBonus + deadlineBonus
}
