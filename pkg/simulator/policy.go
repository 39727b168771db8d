package simulator

import (
	"fmt"
	"log/slog"

	"github.com/taskgrid/taskgrid/pkg/scheduler"
	"github.com/taskgrid/taskgrid/pkg/types"
)

// greedyPolicy assigns each pending task to the least-loaded worker that can
// accept it and still finish before the deadline
type greedyPolicy struct{}

// NewGreedyPolicy returns the greedy online re-scheduling hook
func NewGreedyPolicy() Policy { return greedyPolicy{} }

func (greedyPolicy) Name() string { return "greedy" }

func (greedyPolicy) Reschedule(s *Simulator) {
	if len(s.pending) == 0 {
		return
	}
	types.SortTasks(s.pending)

	for _, t := range append([]*types.Task(nil), s.pending...) {
		var selected *types.Worker
		for _, w := range s.workers {
			if !w.CanAccept(t) {
				continue
			}
			if s.now+w.CurrentLoad+t.EstimatedDuration > s.deadlineMinutes(t) {
				continue
			}
			if selected == nil || w.CurrentLoad < selected.CurrentLoad {
				selected = w
			}
		}
		if selected == nil {
			continue
		}
		if err := selected.AddTask(t); err != nil {
			s.logger.Error("assignment rejected after feasibility check", "task", t.Name, "worker", selected.Name, "error", err)
			continue
		}
		s.removePending(t)
		fmt.Fprintf(s.out, "[%s] Assigned '%s' to %s (Tier %s)\n", FormatClock(s.now), t.Name, selected.Name, selected.Tier)

		if selected.Idle() {
			s.startNext(selected)
		}
	}
}

// graspPolicy plans over snapshots of the idle workers with a small GRASP
// budget and transfers the best assignment back, leaving running workers
// untouched
type graspPolicy struct {
	planner *scheduler.OnlineGRASP
}

// NewGRASPPolicy returns the GRASP online re-scheduling hook
func NewGRASPPolicy(alpha float64, seed int64, logger *slog.Logger) (Policy, error) {
	planner, err := scheduler.NewOnlineGRASP(alpha, seed, logger)
	if err != nil {
		return nil, err
	}
	return &graspPolicy{planner: planner}, nil
}

func (p *graspPolicy) Name() string { return "GRASP" }

func (p *graspPolicy) Reschedule(s *Simulator) {
	if len(s.pending) == 0 {
		return
	}
	idle := make([]*types.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		if w.Idle() {
			idle = append(idle, w)
		}
	}
	if len(idle) == 0 {
		return
	}

	fmt.Fprintf(s.out, "[%s] Running scheduler...\n", FormatClock(s.now))
	plan, err := p.planner.Plan(idle, s.pending, s.now, s.deadlineMinutes)
	if err != nil {
		s.logger.Error("online planning failed", "error", err)
		return
	}

	for _, a := range plan {
		real := s.workerByName(a.Worker.Name)
		if real == nil || !real.Idle() {
			continue
		}
		real.Reset()
		for _, t := range a.Tasks {
			if err := real.AddTask(t); err != nil {
				s.logger.Warn("planned task no longer fits", "task", t.Name, "worker", real.Name, "error", err)
				s.requeue(t)
			}
		}
	}
	s.removeScheduled()

	for _, w := range s.workers {
		if w.Idle() {
			s.startNext(w)
		}
	}
}
