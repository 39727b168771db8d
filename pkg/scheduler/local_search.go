package scheduler

import (
	"math"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// DefaultLocalSearchPasses bounds the swap search when no override is given
const DefaultLocalSearchPasses = 10

// localSearch improves a constructed assignment by swapping queued tasks
// between worker pairs. A swap is applied only when both workers remain
// feasible (capacity re-evaluated after removing their own task) and the
// absolute load difference strictly shrinks. Scanning restarts after every
// applied swap; a full scan without a swap ends the search.
func localSearch(workers []*types.Worker, maxPasses int) error {
	improved := true
	for passes := 0; improved && passes < maxPasses; passes++ {
		improved = false
	scan:
		for _, w1 := range workers {
			for _, w2 := range workers {
				if w1 == w2 {
					continue
				}
				for _, t1 := range w1.Queue {
					for _, t2 := range w2.Queue {
						if !swapFeasible(w1, t1, w2, t2) || !swapImproves(w1, t1, w2, t2) {
							continue
						}
						if err := applySwap(w1, t1, w2, t2); err != nil {
							return err
						}
						improved = true
						break scan
					}
				}
			}
		}
	}
	return nil
}

// swapFeasible checks region, tier and capacity for the exchange, crediting
// back the resources of the task each worker gives up
func swapFeasible(w1 *types.Worker, t1 *types.Task, w2 *types.Worker, t2 *types.Task) bool {
	if !w1.Regions.Contains(t2.Region) || t2.Tier > w1.Tier {
		return false
	}
	if !w2.Regions.Contains(t1.Region) || t1.Tier > w2.Tier {
		return false
	}
	if t2.Resources.Units() > w1.AvailableCapacity+t1.Resources.Units() {
		return false
	}
	if t1.Resources.Units() > w2.AvailableCapacity+t2.Resources.Units() {
		return false
	}
	return true
}

// swapImproves reports whether exchanging the two tasks narrows the load gap
func swapImproves(w1 *types.Worker, t1 *types.Task, w2 *types.Worker, t2 *types.Task) bool {
	current := math.Abs(w1.CurrentLoad - w2.CurrentLoad)
	newLoad1 := w1.CurrentLoad - t1.EstimatedDuration + t2.EstimatedDuration
	newLoad2 := w2.CurrentLoad - t2.EstimatedDuration + t1.EstimatedDuration
	return math.Abs(newLoad1-newLoad2) < current
}

func applySwap(w1 *types.Worker, t1 *types.Task, w2 *types.Worker, t2 *types.Task) error {
	w1.RemoveTask(t1)
	w2.RemoveTask(t2)
	if err := w1.AddTask(t2); err != nil {
		return err
	}
	return w2.AddTask(t1)
}
