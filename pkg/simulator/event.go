package simulator

import (
	"container/heap"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// EventKind discriminates simulator events
type EventKind int

const (
	// EventArrival admits a task into the pending pool
	EventArrival EventKind = iota + 1
	// EventCompletion finishes the task currently running on some worker
	EventCompletion
)

// String returns the event kind name
func (k EventKind) String() string {
	switch k {
	case EventArrival:
		return "ARRIVAL"
	case EventCompletion:
		return "COMPLETION"
	default:
		return "UNKNOWN"
	}
}

// Event is a timed occurrence on the simulation clock
type Event struct {
	Kind EventKind
	Time float64
	Task *types.Task

	// seq preserves insertion order so equal-time events pop stably
	seq int64
}

// eventQueue is a min-heap of events keyed by (time, insertion sequence)
type eventQueue []*Event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].Time != q[j].Time {
		return q[i].Time < q[j].Time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*Event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

var _ heap.Interface = (*eventQueue)(nil)
