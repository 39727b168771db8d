package types

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-set/v3"
)

// ErrInfeasible is returned when a task is offered to a worker that cannot
// accept it; callers are expected to check CanAccept first
var ErrInfeasible = errors.New("worker cannot accept task")

// Worker is a member of the fleet. Runtime state (queue, running task,
// available capacity, load) is owned by exactly one scheduler or simulator at
// a time; the type itself is not safe for concurrent mutation.
type Worker struct {
	Name     string           `json:"name"`
	Tier     Tier             `json:"tier"`
	Regions  *set.Set[string] `json:"-"`
	Capacity int              `json:"capacity"`

	Queue             []*Task `json:"task_queue"`
	Current           *Task   `json:"current_task,omitempty"`
	AvailableCapacity int     `json:"available_capacity"`
	CurrentLoad       float64 `json:"current_load"`
}

// NewWorker creates a worker with full capacity and an empty queue
func NewWorker(name string, tier Tier, regions []string, capacity int) *Worker {
	return &Worker{
		Name:              name,
		Tier:              tier,
		Regions:           set.From(regions),
		Capacity:          capacity,
		AvailableCapacity: capacity,
	}
}

// CanAccept reports whether the task is feasible on this worker: the task's
// region is served, the worker's tier covers the task's tier, and enough
// capacity remains for the task's resource units
func (w *Worker) CanAccept(t *Task) bool {
	if !w.Regions.Contains(t.Region) {
		return false
	}
	if t.Tier > w.Tier {
		return false
	}
	if t.Resources.Units() > w.AvailableCapacity {
		return false
	}
	return true
}

// AddTask enqueues the task, consuming capacity and load, and keeps the queue
// sorted by (-priority, due date). Returns ErrInfeasible when CanAccept is
// false; the worker is left unchanged in that case.
func (w *Worker) AddTask(t *Task) error {
	if !w.CanAccept(t) {
		return fmt.Errorf("%w: task %s on worker %s", ErrInfeasible, t.Name, w.Name)
	}
	w.Queue = append(w.Queue, t)
	w.AvailableCapacity -= t.Resources.Units()
	w.CurrentLoad += t.EstimatedDuration
	SortTasks(w.Queue)
	return nil
}

// RemoveTask takes a queued task back out, restoring capacity and load.
// Reports whether the task was present.
func (w *Worker) RemoveTask(t *Task) bool {
	for i, queued := range w.Queue {
		if queued == t {
			w.Queue = append(w.Queue[:i], w.Queue[i+1:]...)
			w.AvailableCapacity += t.Resources.Units()
			w.CurrentLoad -= t.EstimatedDuration
			return true
		}
	}
	return false
}

// ProcessNextTask pops the queue head into the running slot and returns it,
// or nil when the queue is empty. Capacity stays consumed while the task runs.
func (w *Worker) ProcessNextTask() *Task {
	if len(w.Queue) == 0 {
		return nil
	}
	t := w.Queue[0]
	w.Queue = w.Queue[1:]
	w.Current = t
	return t
}

// CompleteCurrentTask marks the running task completed, releases its capacity
// and clears the running slot. The simulator additionally subtracts the task's
// duration from CurrentLoad at completion time.
func (w *Worker) CompleteCurrentTask() {
	if w.Current == nil {
		return
	}
	w.Current.MarkCompleted()
	w.AvailableCapacity += w.Current.Resources.Units()
	w.Current = nil
}

// Idle reports whether no task is currently running
func (w *Worker) Idle() bool { return w.Current == nil }

// Reset clears all runtime state back to an empty, full-capacity worker
func (w *Worker) Reset() {
	w.Queue = nil
	w.Current = nil
	w.AvailableCapacity = w.Capacity
	w.CurrentLoad = 0
}

// Clone returns a deep copy of the worker, including queued tasks, sharing no
// state with the original
func (w *Worker) Clone() *Worker {
	c := &Worker{
		Name:              w.Name,
		Tier:              w.Tier,
		Regions:           w.Regions.Copy(),
		Capacity:          w.Capacity,
		AvailableCapacity: w.AvailableCapacity,
		CurrentLoad:       w.CurrentLoad,
	}
	for _, t := range w.Queue {
		c.Queue = append(c.Queue, t.Clone())
	}
	if w.Current != nil {
		c.Current = w.Current.Clone()
	}
	return c
}

// QueuedWork returns the summed estimated duration of queued tasks
func (w *Worker) QueuedWork() float64 {
	var total float64
	for _, t := range w.Queue {
		total += t.EstimatedDuration
	}
	return total
}

// SortTasks orders tasks by descending priority, then earliest deadline,
// keeping the incoming order for full ties
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority > tasks[j].Priority
		}
		return tasks[i].SortKeyDeadline() < tasks[j].SortKeyDeadline()
	})
}
