package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/taskgrid/pkg/types"
)

func TestLocalSearchBalancesLoads(t *testing.T) {
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 5)
	w2 := types.NewWorker("W2", types.Tier3, []string{"Europe"}, 5)

	require.NoError(t, w1.AddTask(batchTask("a", types.PriorityLow, types.Tier1, "Europe", 30, 8, types.ResourceLow)))
	require.NoError(t, w1.AddTask(batchTask("b", types.PriorityLow, types.Tier1, "Europe", 30, 6, types.ResourceLow)))
	require.NoError(t, w2.AddTask(batchTask("c", types.PriorityLow, types.Tier1, "Europe", 30, 2, types.ResourceLow)))

	require.NoError(t, localSearch([]*types.Worker{w1, w2}, DefaultLocalSearchPasses))

	// Exchanging the 8 for the 2 balances both workers at 8
	assert.Equal(t, 0.0, absDiff(w1.CurrentLoad, w2.CurrentLoad))
	assert.Equal(t, 16.0, w1.CurrentLoad+w2.CurrentLoad, "total load preserved")
}

func TestLocalSearchRespectsTierFeasibility(t *testing.T) {
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 5)
	w2 := types.NewWorker("W2", types.Tier1, []string{"Europe"}, 5)

	heavy := batchTask("heavy", types.PriorityLow, types.Tier3, "Europe", 10, 9, types.ResourceLow)
	light := batchTask("light", types.PriorityLow, types.Tier1, "Europe", 10, 1, types.ResourceLow)
	require.NoError(t, w1.AddTask(heavy))
	require.NoError(t, w2.AddTask(light))

	require.NoError(t, localSearch([]*types.Worker{w1, w2}, DefaultLocalSearchPasses))

	// The balancing swap would need the tier 3 task on the tier 1 worker
	assert.Equal(t, "heavy", w1.Queue[0].Name)
	assert.Equal(t, "light", w2.Queue[0].Name)
}

func TestLocalSearchPostRemovalCapacity(t *testing.T) {
	// Both workers are at full capacity; the swap is only feasible because
	// each frees its own task's resources first
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 3)
	w2 := types.NewWorker("W2", types.Tier3, []string{"Europe"}, 2)

	require.NoError(t, w1.AddTask(batchTask("A", types.PriorityLow, types.Tier1, "Europe", 30, 8, types.ResourceMedium)))
	require.NoError(t, w1.AddTask(batchTask("B", types.PriorityLow, types.Tier1, "Europe", 30, 1, types.ResourceLow)))
	require.NoError(t, w2.AddTask(batchTask("C", types.PriorityLow, types.Tier1, "Europe", 30, 2, types.ResourceMedium)))
	require.Equal(t, 0, w1.AvailableCapacity)
	require.Equal(t, 0, w2.AvailableCapacity)

	require.NoError(t, localSearch([]*types.Worker{w1, w2}, DefaultLocalSearchPasses))

	// A moved to W2 in exchange for C, narrowing |9-2| to |3-8|
	assert.Equal(t, []string{"B", "C"}, []string{w1.Queue[0].Name, w1.Queue[1].Name})
	assert.Equal(t, "A", w2.Queue[0].Name)
	assert.Equal(t, 0, w1.AvailableCapacity)
	assert.Equal(t, 0, w2.AvailableCapacity)
}

func TestLocalSearchNoImprovementTerminates(t *testing.T) {
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 5)
	w2 := types.NewWorker("W2", types.Tier3, []string{"Europe"}, 5)
	require.NoError(t, w1.AddTask(batchTask("a", types.PriorityLow, types.Tier1, "Europe", 30, 3, types.ResourceLow)))
	require.NoError(t, w2.AddTask(batchTask("b", types.PriorityLow, types.Tier1, "Europe", 30, 3, types.ResourceLow)))

	require.NoError(t, localSearch([]*types.Worker{w1, w2}, DefaultLocalSearchPasses))
	assert.Equal(t, "a", w1.Queue[0].Name)
	assert.Equal(t, "b", w2.Queue[0].Name)
}

func TestLocalSearchScoreNonDecreasing(t *testing.T) {
	w1 := types.NewWorker("W1", types.Tier3, []string{"Europe"}, 5)
	w2 := types.NewWorker("W2", types.Tier3, []string{"Europe"}, 5)
	require.NoError(t, w1.AddTask(batchTask("x", types.PriorityHigh, types.Tier1, "Europe", 30, 7, types.ResourceLow)))
	require.NoError(t, w1.AddTask(batchTask("y", types.PriorityLow, types.Tier1, "Europe", 30, 4, types.ResourceLow)))
	require.NoError(t, w2.AddTask(batchTask("z", types.PriorityLow, types.Tier1, "Europe", 30, 1, types.ResourceLow)))

	workers := []*types.Worker{w1, w2}
	eval := NewBatchEvaluator(testToday)
	before := eval.Score(workers)

	require.NoError(t, localSearch(workers, DefaultLocalSearchPasses))
	assert.GreaterOrEqual(t, eval.Score(workers), before)
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
