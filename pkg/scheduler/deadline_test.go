package scheduler

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/taskgrid/pkg/types"
)

func TestSimulateDeadlinesReportsLateness(t *testing.T) {
	workers := []*types.Worker{types.NewWorker("W1", types.Tier2, []string{"NA"}, 3)}
	tasks := []*types.Task{
		batchTask("A", types.PriorityHigh, types.Tier1, "NA", 1, 2, types.ResourceLow),
		batchTask("B", types.PriorityHigh, types.Tier1, "NA", 2, 2, types.ResourceLow),
	}

	g, err := NewGRASP(workers, Config{Alpha: 0, MaxIterations: 1, Today: testToday}, slog.Default())
	require.NoError(t, err)
	sol, err := g.Schedule(tasks)
	require.NoError(t, err)

	// Queue ordering puts the earlier deadline first
	assert.Equal(t, []string{"A", "B"}, taskNamesByWorker(sol)["W1"])

	violations := g.SimulateExecution(sol)
	// A completes at day 2 against deadline 1, B at day 4 against deadline 2
	assert.InDelta(t, 1.0, violations["A"], 1e-9)
	assert.InDelta(t, 2.0, violations["B"], 1e-9)
}

func TestSimulateDeadlinesPicksEarliestCompletion(t *testing.T) {
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 5)
	w2 := types.NewWorker("W2", types.Tier3, []string{"Europe"}, 5)
	require.NoError(t, w1.AddTask(batchTask("slow", types.PriorityLow, types.Tier1, "Europe", 10, 6, types.ResourceLow)))
	require.NoError(t, w2.AddTask(batchTask("fast", types.PriorityLow, types.Tier1, "Europe", 1, 1, types.ResourceLow)))
	require.NoError(t, w2.AddTask(batchTask("next", types.PriorityLow, types.Tier1, "Europe", 2, 2, types.ResourceLow)))

	sol := snapshotSolution([]*types.Worker{w1, w2}, nil, 0)
	violations := SimulateDeadlines(sol, func(task *types.Task) float64 { return task.DeadlineDays(testToday) })

	// fast at 1 (on time), next at 3 (late by 1), slow at 6 on its own timeline
	assert.NotContains(t, violations, "fast")
	assert.NotContains(t, violations, "slow")
	assert.InDelta(t, 1.0, violations["next"], 1e-9)
}

func TestSimulateDeadlinesIdempotent(t *testing.T) {
	workers := []*types.Worker{types.NewWorker("W1", types.Tier2, []string{"NA"}, 3)}
	tasks := []*types.Task{
		batchTask("A", types.PriorityHigh, types.Tier1, "NA", 1, 2, types.ResourceLow),
		batchTask("B", types.PriorityHigh, types.Tier1, "NA", 2, 2, types.ResourceLow),
	}

	g, err := NewGRASP(workers, Config{Alpha: 0, MaxIterations: 1, Today: testToday}, slog.Default())
	require.NoError(t, err)
	sol, err := g.Schedule(tasks)
	require.NoError(t, err)

	first := g.SimulateExecution(sol)
	second := g.SimulateExecution(sol)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A", "B"}, taskNamesByWorker(sol)["W1"], "replay leaves the solution intact")
}
