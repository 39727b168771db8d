package simulator

import (
	"container/heap"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/taskgrid/taskgrid/pkg/scheduler"
	"github.com/taskgrid/taskgrid/pkg/types"
)

// Policy is the re-scheduling hook invoked whenever a worker is idle
type Policy interface {
	// Name identifies the policy in logs and reports
	Name() string
	// Reschedule assigns pending tasks onto the fleet
	Reschedule(s *Simulator)
}

// Simulator replays task arrivals and completions over a discrete-event
// clock. Worker state is owned exclusively by the simulator for the duration
// of a run; a single loop dispatches events in time order, so apparent
// worker parallelism is virtual.
type Simulator struct {
	workers []*types.Worker
	policy  Policy

	events  eventQueue
	seq     int64
	now     float64
	offset  float64
	started bool
	pending []*types.Task

	busy      map[string]float64
	completed int

	logger *slog.Logger
	out    io.Writer
}

// Option customises a simulator
type Option func(*Simulator)

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithOutput redirects the time-stamped event narration
func WithOutput(w io.Writer) Option {
	return func(s *Simulator) { s.out = w }
}

// New creates a simulator over the fleet with the given re-scheduling policy
func New(workers []*types.Worker, policy Policy, opts ...Option) (*Simulator, error) {
	if len(workers) == 0 {
		return nil, fmt.Errorf("%w: empty fleet", scheduler.ErrInvalidConfig)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: no re-scheduling policy", scheduler.ErrInvalidConfig)
	}
	s := &Simulator{
		workers: workers,
		policy:  policy,
		busy:    make(map[string]float64, len(workers)),
		logger:  slog.Default(),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Add admits a task. Absolute arrival timestamps are normalised onto the
// zero-based minute clock; the offset is fixed by the first admitted task.
// Tasks without an absolute timestamp use their relative Arrival value.
func (s *Simulator) Add(t *types.Task) {
	if !t.ArrivalAt.IsZero() {
		minutes := float64(t.ArrivalAt.Unix()) / 60
		if !s.started {
			s.offset = -minutes
			s.started = true
		}
		t.Arrival = minutes + s.offset
	}
	s.push(EventArrival, t.Arrival, t)
}

// Now returns the current simulation clock in minutes
func (s *Simulator) Now() float64 { return s.now }

// Run processes events until the queue empties or the clock passes endTime,
// then drains all still-assigned work so final statistics cover the full
// workload
func (s *Simulator) Run(endTime float64) {
	fmt.Fprintf(s.out, "Starting %s simulation\n", s.policy.Name())

	for len(s.events) > 0 && s.now <= endTime {
		e := heap.Pop(&s.events).(*Event)
		s.now = e.Time

		switch e.Kind {
		case EventArrival:
			s.handleArrival(e.Task)
		case EventCompletion:
			s.handleCompletion(e.Task)
		}

		if s.anyIdle() {
			s.policy.Reschedule(s)
		}
	}

	s.drain()
	fmt.Fprintf(s.out, "\nSimulation completed at %s\n", FormatClock(s.now))
	s.writeStats()
}

func (s *Simulator) handleArrival(t *types.Task) {
	s.pending = append(s.pending, t)
	fmt.Fprintf(s.out, "[%s] Task '%s' arrived | Priority: %s | Duration: %v mins | Tier: %s | Resources: %s\n",
		FormatClock(s.now), t.Name, t.Priority, t.EstimatedDuration, t.Tier, t.Resources)
}

func (s *Simulator) handleCompletion(t *types.Task) {
	for _, w := range s.workers {
		if w.Current != t {
			continue
		}
		w.CompleteCurrentTask()
		w.CurrentLoad -= t.EstimatedDuration
		s.busy[w.Name] += t.EstimatedDuration
		s.completed++
		fmt.Fprintf(s.out, "[%s] %s completed '%s' (was %s priority)\n", FormatClock(s.now), w.Name, t.Name, t.Priority)
		s.startNext(w)
		return
	}
	s.logger.Warn("completion event for task not running anywhere", "task", t.Name)
}

// startNext begins the queue head on an idle worker and schedules its
// completion event
func (s *Simulator) startNext(w *types.Worker) {
	if !w.Idle() || len(w.Queue) == 0 {
		return
	}
	t := w.ProcessNextTask()
	completion := s.now + t.EstimatedDuration
	s.push(EventCompletion, completion, t)
	fmt.Fprintf(s.out, "[%s] %s started '%s' (ETA: %s)\n", FormatClock(s.now), w.Name, t.Name, FormatClock(completion))
}

// drain completes every still-assigned task in earliest-completion order
// without dispatching further events, so reported statistics reflect the
// whole assigned workload even past the end time. A running task finishes at
// the time of its scheduled completion event; idle workers start their queue
// heads as the clock advances.
func (s *Simulator) drain() {
	for {
		for _, w := range s.workers {
			s.startNext(w)
		}

		var next *types.Worker
		nextTime := math.Inf(1)
		for _, w := range s.workers {
			if w.Current == nil {
				continue
			}
			completion := s.now + w.Current.EstimatedDuration
			for _, e := range s.events {
				if e.Kind == EventCompletion && e.Task == w.Current {
					completion = e.Time
				}
			}
			if completion < nextTime {
				nextTime = completion
				next = w
			}
		}
		if next == nil {
			return
		}

		t := next.Current
		s.now = nextTime
		next.CompleteCurrentTask()
		next.CurrentLoad -= t.EstimatedDuration
		s.busy[next.Name] += t.EstimatedDuration
		s.completed++
		fmt.Fprintf(s.out, "[%s] %s completed '%s'\n", FormatClock(s.now), next.Name, t.Name)
	}
}

func (s *Simulator) anyIdle() bool {
	for _, w := range s.workers {
		if w.Idle() {
			return true
		}
	}
	return false
}

func (s *Simulator) push(kind EventKind, at float64, t *types.Task) {
	s.seq++
	heap.Push(&s.events, &Event{Kind: kind, Time: at, Task: t, seq: s.seq})
}

// deadlineMinutes translates a task deadline onto the simulation clock
func (s *Simulator) deadlineMinutes(t *types.Task) float64 {
	return t.DeadlineMinutes(s.offset)
}

// removeScheduled drops every task that now sits in a worker queue or runs as
// a current task from the pending pool
func (s *Simulator) removeScheduled() {
	scheduled := make(map[*types.Task]bool)
	for _, w := range s.workers {
		for _, t := range w.Queue {
			scheduled[t] = true
		}
		if w.Current != nil {
			scheduled[w.Current] = true
		}
	}
	kept := s.pending[:0]
	for _, t := range s.pending {
		if !scheduled[t] {
			kept = append(kept, t)
		}
	}
	s.pending = kept
}

// requeue returns a task to the pending pool unless it is already there
func (s *Simulator) requeue(task *types.Task) {
	for _, p := range s.pending {
		if p == task {
			return
		}
	}
	s.pending = append(s.pending, task)
}

// FormatClock renders a minute count as HH:MM
func FormatClock(minutes float64) string {
	m := int(minutes)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
