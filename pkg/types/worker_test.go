package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTask(name string, p Priority, tier Tier, region string, dur float64, res ResourceLevel) *Task {
	return &Task{Name: name, Priority: p, Tier: tier, Region: region, EstimatedDuration: dur, Resources: res}
}

func TestCanAccept(t *testing.T) {
	w := NewWorker("w1", Tier3, []string{"eu-1", "eu-2"}, 5)

	assert.True(t, w.CanAccept(testTask("ok", PriorityLow, Tier3, "eu-1", 1, ResourceLow)))
	assert.True(t, w.CanAccept(testTask("lower-tier", PriorityLow, Tier1, "eu-2", 1, ResourceLow)))

	assert.False(t, w.CanAccept(testTask("wrong-region", PriorityLow, Tier1, "us-1", 1, ResourceLow)), "region not served")
	assert.False(t, w.CanAccept(testTask("too-high-tier", PriorityLow, Tier4, "eu-1", 1, ResourceLow)), "tier above worker")
}

func TestAddTaskAccounting(t *testing.T) {
	w := NewWorker("w1", Tier3, []string{"eu-1"}, 5)

	require.NoError(t, w.AddTask(testTask("a", PriorityLow, Tier1, "eu-1", 4, ResourceMedium)))
	assert.Equal(t, 3, w.AvailableCapacity)
	assert.Equal(t, 4.0, w.CurrentLoad)

	require.NoError(t, w.AddTask(testTask("b", PriorityHigh, Tier1, "eu-1", 2, ResourceLow)))
	assert.Equal(t, 2, w.AvailableCapacity)
	assert.Equal(t, 6.0, w.CurrentLoad)

	// Queue re-sorts on insert: the high priority task moves to the head
	assert.Equal(t, "b", w.Queue[0].Name)
	assert.Equal(t, "a", w.Queue[1].Name)
}

func TestAddTaskInfeasible(t *testing.T) {
	w := NewWorker("w1", Tier1, []string{"eu-1"}, 1)

	err := w.AddTask(testTask("big", PriorityLow, Tier1, "eu-1", 1, ResourceHigh))
	require.ErrorIs(t, err, ErrInfeasible)
	assert.Empty(t, w.Queue)
	assert.Equal(t, 1, w.AvailableCapacity)
	assert.Equal(t, 0.0, w.CurrentLoad)
}

func TestCapacitySemaphore(t *testing.T) {
	w := NewWorker("w1", Tier3, []string{"eu-1"}, 2)

	big := testTask("big", PriorityLow, Tier1, "eu-1", 3, ResourceMedium)
	require.NoError(t, w.AddTask(big))
	assert.Equal(t, 0, w.AvailableCapacity)

	small := testTask("small", PriorityLow, Tier1, "eu-1", 1, ResourceLow)
	assert.False(t, w.CanAccept(small), "capacity exhausted")

	// Capacity stays consumed while the task runs
	assert.Same(t, big, w.ProcessNextTask())
	assert.False(t, w.CanAccept(small))

	w.CompleteCurrentTask()
	assert.True(t, big.Completed)
	assert.Equal(t, 2, w.AvailableCapacity)
	assert.True(t, w.CanAccept(small))
}

func TestProcessNextTaskEmpty(t *testing.T) {
	w := NewWorker("w1", Tier1, []string{"eu-1"}, 1)
	assert.Nil(t, w.ProcessNextTask())
	assert.True(t, w.Idle())
}

func TestRemoveTask(t *testing.T) {
	w := NewWorker("w1", Tier3, []string{"eu-1"}, 5)
	task := testTask("a", PriorityLow, Tier1, "eu-1", 4, ResourceMedium)
	require.NoError(t, w.AddTask(task))

	assert.True(t, w.RemoveTask(task))
	assert.Equal(t, 5, w.AvailableCapacity)
	assert.Equal(t, 0.0, w.CurrentLoad)
	assert.False(t, w.RemoveTask(task))
}

func TestQueueSortedByPriorityThenDeadline(t *testing.T) {
	today := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)
	w := NewWorker("w1", Tier3, []string{"eu-1"}, 10)

	late := testTask("late", PriorityHigh, Tier1, "eu-1", 1, ResourceLow)
	late.DueDate = today.AddDate(0, 0, 9)
	soon := testTask("soon", PriorityHigh, Tier1, "eu-1", 1, ResourceLow)
	soon.DueDate = today.AddDate(0, 0, 1)
	low := testTask("low", PriorityLow, Tier1, "eu-1", 1, ResourceLow)
	low.DueDate = today.AddDate(0, 0, 1)

	require.NoError(t, w.AddTask(low))
	require.NoError(t, w.AddTask(late))
	require.NoError(t, w.AddTask(soon))

	assert.Equal(t, "soon", w.Queue[0].Name)
	assert.Equal(t, "late", w.Queue[1].Name)
	assert.Equal(t, "low", w.Queue[2].Name)
}

func TestResetAndClone(t *testing.T) {
	w := NewWorker("w1", Tier3, []string{"eu-1"}, 5)
	require.NoError(t, w.AddTask(testTask("a", PriorityLow, Tier1, "eu-1", 4, ResourceMedium)))

	clone := w.Clone()
	w.Reset()

	assert.Empty(t, w.Queue)
	assert.Equal(t, 5, w.AvailableCapacity)
	assert.Equal(t, 0.0, w.CurrentLoad)

	// The clone kept its own state and tasks
	require.Len(t, clone.Queue, 1)
	assert.Equal(t, 3, clone.AvailableCapacity)
	assert.Equal(t, 4.0, clone.CurrentLoad)
	assert.True(t, clone.Regions.Contains("eu-1"))
}
