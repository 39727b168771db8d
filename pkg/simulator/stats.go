package simulator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// WorkerStats summarises one worker at the end of a run
type WorkerStats struct {
	Name        string  `json:"name"`
	Tier        string  `json:"tier"`
	BusyTime    float64 `json:"busy_time"`
	Utilization float64 `json:"utilization"`
	Queued      int     `json:"queued"`
	Running     string  `json:"running,omitempty"`
}

// Stats summarises a completed simulation
type Stats struct {
	Clock          float64       `json:"clock"`
	Completed      int           `json:"completed"`
	Workers        []WorkerStats `json:"workers"`
	Pending        []*types.Task `json:"pending,omitempty"`
	MeanUtil       float64       `json:"mean_utilization"`
	StdDevUtil     float64       `json:"stddev_utilization"`
	TotalBusyTime  float64       `json:"total_busy_time"`
}

// Stats computes the final statistics for the run
func (s *Simulator) Stats() *Stats {
	st := &Stats{Clock: s.now, Completed: s.completed}

	utils := make([]float64, 0, len(s.workers))
	for _, w := range s.workers {
		busy := s.busy[w.Name]
		util := 0.0
		if s.now > 0 {
			util = busy / s.now * 100
		}
		ws := WorkerStats{
			Name:        w.Name,
			Tier:        w.Tier.String(),
			BusyTime:    busy,
			Utilization: util,
			Queued:      len(w.Queue),
		}
		if w.Current != nil {
			ws.Running = w.Current.Name
		}
		st.Workers = append(st.Workers, ws)
		st.TotalBusyTime += busy
		utils = append(utils, util)
	}
	st.MeanUtil = stat.Mean(utils, nil)
	if len(utils) > 1 {
		st.StdDevUtil = stat.StdDev(utils, nil)
	}
	st.Pending = append([]*types.Task(nil), s.pending...)
	return st
}

// writeStats prints the end-of-run summary in the console report format
func (s *Simulator) writeStats() {
	st := s.Stats()

	fmt.Fprintf(s.out, "\n=== Simulation Results ===\n")
	fmt.Fprintf(s.out, "Total runtime: %s\n", FormatClock(st.Clock))
	fmt.Fprintf(s.out, "Completed tasks: %d\n", st.Completed)

	fmt.Fprintf(s.out, "\nWorker Utilization:\n")
	for _, w := range st.Workers {
		fmt.Fprintf(s.out, "%s (Tier %s):\n", w.Name, w.Tier)
		fmt.Fprintf(s.out, "  - Utilization: %.1f%%\n", w.Utilization)
		fmt.Fprintf(s.out, "  - Queued tasks: %d\n", w.Queued)
		if w.Running != "" {
			fmt.Fprintf(s.out, "  - Current task: %s\n", w.Running)
		}
	}
	fmt.Fprintf(s.out, "\nFleet utilization: mean %.1f%%, stddev %.1f%%\n", st.MeanUtil, st.StdDevUtil)

	fmt.Fprintf(s.out, "\nPending Tasks: %d\n", len(st.Pending))
	for _, t := range st.Pending {
		fmt.Fprintf(s.out, "- '%s' (Tier: %s, Resources: %s)\n", t.Name, t.Tier, t.Resources)
	}
}

func (s *Simulator) workerByName(name string) *types.Worker {
	for _, w := range s.workers {
		if w.Name == name {
			return w
		}
	}
	return nil
}

func (s *Simulator) removePending(t *types.Task) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
