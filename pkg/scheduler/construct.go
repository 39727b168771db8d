package scheduler

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// insertionScore rates a worker as a destination for a task; lower is better
type insertionScore func(w *types.Worker, t *types.Task) float64

// loadScore is the batch insertion score: the worker's current load
func loadScore(w *types.Worker, _ *types.Task) float64 {
	return w.CurrentLoad
}

// slackScore returns an insertion score that favours low load and generous
// deadline slack; used by the online scheduler where a clock reference exists
func slackScore(now float64, deadlineOf func(*types.Task) float64) insertionScore {
	return func(w *types.Worker, t *types.Task) float64 {
		slack := deadlineOf(t) - (now + w.CurrentLoad)
		return w.CurrentLoad - 0.5*slack
	}
}

// rclAssign performs the randomised greedy construction pass. Tasks are
// visited by (-priority, due date); each is placed on a worker drawn from the
// restricted candidate list, the feasible workers whose score is within alpha
// of the best. With alpha zero the stable first-best worker is taken, keeping
// the construction deterministic. Tasks with no feasible worker are returned
// by name.
func rclAssign(workers []*types.Worker, tasks []*types.Task, alpha float64, rng *rand.Rand, score insertionScore, logger *slog.Logger) ([]string, error) {
	ordered := append([]*types.Task(nil), tasks...)
	types.SortTasks(ordered)

	var infeasible []string
	for _, task := range ordered {
		feasible := make([]*types.Worker, 0, len(workers))
		for _, w := range workers {
			if w.CanAccept(task) {
				feasible = append(feasible, w)
			}
		}
		if len(feasible) == 0 {
			logger.Warn("no feasible worker for task", "task", task.Name, "tier", task.Tier, "region", task.Region)
			infeasible = append(infeasible, task.Name)
			continue
		}

		scores := make([]float64, len(feasible))
		for i, w := range feasible {
			scores[i] = score(w, task)
		}
		rcl := restrictedCandidates(feasible, scores, alpha)

		selected := rcl[0]
		if alpha > 0 && len(rcl) > 1 {
			selected = rcl[rng.Intn(len(rcl))]
		}
		if err := selected.AddTask(task); err != nil {
			return nil, err
		}
	}
	return infeasible, nil
}

// restrictedCandidates returns the feasible workers whose score lies within
// alpha of the best, ordered best-first with ties kept in fleet order. A lone
// feasible worker, or a fully tied score set, yields every worker regardless
// of alpha.
func restrictedCandidates(feasible []*types.Worker, scores []float64, alpha float64) []*types.Worker {
	order := make([]int, len(feasible))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	minScore := scores[order[0]]
	maxScore := scores[order[len(order)-1]]
	threshold := minScore
	if maxScore > minScore {
		threshold = minScore + alpha*(maxScore-minScore)
	}

	rcl := make([]*types.Worker, 0, len(feasible))
	for _, idx := range order {
		if scores[idx] <= threshold {
			rcl = append(rcl, feasible[idx])
		}
	}
	return rcl
}
