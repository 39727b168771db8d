package scheduler

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/taskgrid/pkg/types"
)

func onlineTask(name string, p types.Priority, dur, due float64) *types.Task {
	return &types.Task{
		ID:                name,
		Name:              name,
		Priority:          p,
		Tier:              types.Tier1,
		Region:            "Europe",
		EstimatedDuration: dur,
		Resources:         types.ResourceLow,
		Due:               due,
	}
}

func TestOnlinePlanLeavesLiveWorkersUntouched(t *testing.T) {
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 5)
	w2 := types.NewWorker("W2", types.Tier3, []string{"Europe"}, 5)
	pending := []*types.Task{
		onlineTask("a", types.PriorityHigh, 30, 500),
		onlineTask("b", types.PriorityLow, 60, 500),
	}

	planner, err := NewOnlineGRASP(0.3, 1, slog.Default())
	require.NoError(t, err)
	plan, err := planner.Plan([]*types.Worker{w1, w2}, pending, 0, func(task *types.Task) float64 { return task.Due })
	require.NoError(t, err)

	assert.Empty(t, w1.Queue, "planning must not mutate the fleet")
	assert.Empty(t, w2.Queue)
	assert.Equal(t, 5, w1.AvailableCapacity)

	planned := 0
	for _, a := range plan {
		planned += len(a.Tasks)
	}
	assert.Equal(t, 2, planned)
}

func TestOnlinePlanSharesTaskPointers(t *testing.T) {
	w := types.NewWorker("W", types.Tier3, []string{"Europe"}, 5)
	task := onlineTask("a", types.PriorityHigh, 30, 500)

	planner, err := NewOnlineGRASP(0, 1, slog.Default())
	require.NoError(t, err)
	plan, err := planner.Plan([]*types.Worker{w}, []*types.Task{task}, 0, func(task *types.Task) float64 { return task.Due })
	require.NoError(t, err)

	require.Len(t, plan, 1)
	require.Len(t, plan[0].Tasks, 1)
	assert.Same(t, task, plan[0].Tasks[0], "assignments carry the caller's own tasks")
}

func TestOnlinePlanEmptyInputs(t *testing.T) {
	w := types.NewWorker("W", types.Tier3, []string{"Europe"}, 5)
	planner, err := NewOnlineGRASP(0.3, 1, slog.Default())
	require.NoError(t, err)

	plan, err := planner.Plan(nil, []*types.Task{onlineTask("a", types.PriorityLow, 1, 10)}, 0, func(task *types.Task) float64 { return task.Due })
	require.NoError(t, err)
	assert.Nil(t, plan)

	plan, err = planner.Plan([]*types.Worker{w}, nil, 0, func(task *types.Task) float64 { return task.Due })
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestNewOnlineGRASPValidatesAlpha(t *testing.T) {
	_, err := NewOnlineGRASP(-0.1, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewOnlineGRASP(1.1, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
