package scheduler

import (
	"github.com/taskgrid/taskgrid/pkg/types"
)

// Assignment pairs a worker with the ordered tasks scheduled onto it
type Assignment struct {
	Worker *types.Worker `json:"worker"`
	Tasks  []*types.Task `json:"tasks"`
}

// Solution is the outcome of a scheduling run: one assignment per fleet
// worker, in fleet order, plus the names of tasks no worker could accept.
// Assignments hold deep copies, so a solution stays valid while the live
// fleet state is reset for further iterations.
type Solution struct {
	Assignments []Assignment `json:"assignments"`
	Infeasible  []string     `json:"infeasible,omitempty"`
	Score       float64      `json:"score"`
}

// AssignedCount returns the number of tasks placed on workers
func (s *Solution) AssignedCount() int {
	n := 0
	for _, a := range s.Assignments {
		n += len(a.Tasks)
	}
	return n
}

// snapshotSolution captures the current fleet state as an immutable solution
func snapshotSolution(workers []*types.Worker, infeasible []string, score float64) *Solution {
	sol := &Solution{
		Assignments: make([]Assignment, 0, len(workers)),
		Infeasible:  append([]string(nil), infeasible...),
		Score:       score,
	}
	for _, w := range workers {
		clone := w.Clone()
		sol.Assignments = append(sol.Assignments, Assignment{Worker: clone, Tasks: clone.Queue})
	}
	return sol
}
