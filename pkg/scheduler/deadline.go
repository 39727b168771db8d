package scheduler

import (
	"math"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// SimulateDeadlines replays a finalised solution against a zero-based clock
// and reports every due-date violation as task name to lateness. Each worker
// advances its own timeline; at every step the worker whose queue head would
// finish earliest runs next. The solution itself is not modified.
func SimulateDeadlines(sol *Solution, deadlineOf func(*types.Task) float64) map[string]float64 {
	timelines := make([]float64, len(sol.Assignments))
	heads := make([]int, len(sol.Assignments))
	violations := make(map[string]float64)

	for {
		next := -1
		nextTime := math.Inf(1)
		for i, a := range sol.Assignments {
			if heads[i] >= len(a.Tasks) {
				continue
			}
			completion := timelines[i] + a.Tasks[heads[i]].EstimatedDuration
			if completion < nextTime {
				nextTime = completion
				next = i
			}
		}
		if next < 0 {
			return violations
		}

		task := sol.Assignments[next].Tasks[heads[next]]
		heads[next]++
		timelines[next] = nextTime
		if due := deadlineOf(task); nextTime > due {
			violations[task.Name] = nextTime - due
		}
	}
}
