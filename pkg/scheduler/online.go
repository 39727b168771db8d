package scheduler

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// DefaultOnlineIterations is the restart budget for online re-scheduling,
// kept small because the hook runs inside the event loop
const DefaultOnlineIterations = 3

// OnlineGRASP plans assignments for idle workers during a simulation run. It
// operates on snapshots, never on live fleet state; the caller transfers the
// returned assignments onto the real workers.
type OnlineGRASP struct {
	Alpha      float64
	Iterations int
	Passes     int

	rng    *rand.Rand
	logger *slog.Logger
}

// NewOnlineGRASP creates an online planner with the given construction alpha
func NewOnlineGRASP(alpha float64, seed int64, logger *slog.Logger) (*OnlineGRASP, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: alpha %v outside [0,1]", ErrInvalidConfig, alpha)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OnlineGRASP{
		Alpha:      alpha,
		Iterations: DefaultOnlineIterations,
		Passes:     DefaultLocalSearchPasses,
		rng:        rand.New(rand.NewSource(seed)),
		logger:     logger,
	}, nil
}

// Plan runs a few GRASP iterations over snapshots of the idle workers and
// returns the best assignment found. Insertion scores subtract half the
// deadline slack, so urgent tasks gravitate to workers that can still make
// their due dates. The returned task pointers are the caller's own pending
// tasks; snapshot queues share them without copying.
func (o *OnlineGRASP) Plan(idle []*types.Worker, pending []*types.Task, now float64, deadlineOf func(*types.Task) float64) ([]Assignment, error) {
	if len(idle) == 0 || len(pending) == 0 {
		return nil, nil
	}

	score := slackScore(now, deadlineOf)
	eval := Evaluator{Now: now, DeadlineOf: deadlineOf}

	var best []Assignment
	bestScore := 0.0
	for i := 0; i < o.Iterations; i++ {
		snaps := make([]*types.Worker, len(idle))
		for j, w := range idle {
			snaps[j] = snapshotForPlanning(w)
		}
		if _, err := rclAssign(snaps, pending, o.Alpha, o.rng, score, o.logger); err != nil {
			return nil, err
		}
		if err := localSearch(snaps, o.Passes); err != nil {
			return nil, err
		}
		if s := eval.Score(snaps); best == nil || s > bestScore {
			bestScore = s
			best = make([]Assignment, len(snaps))
			for j, w := range snaps {
				best[j] = Assignment{Worker: w, Tasks: w.Queue}
			}
		}
	}
	return best, nil
}

// snapshotForPlanning copies a worker's runtime state while sharing the task
// pointers, so planned queues can be transferred back without identity loss
func snapshotForPlanning(w *types.Worker) *types.Worker {
	return &types.Worker{
		Name:              w.Name,
		Tier:              w.Tier,
		Regions:           w.Regions.Copy(),
		Capacity:          w.Capacity,
		AvailableCapacity: w.AvailableCapacity,
		CurrentLoad:       w.CurrentLoad,
		Queue:             append([]*types.Task(nil), w.Queue...),
	}
}
