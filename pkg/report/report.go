// Package report renders batch scheduling results for the console.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/taskgrid/taskgrid/pkg/scheduler"
)

// WriteAssignments lists each worker with its tier and regions followed by
// the tasks assigned to it
func WriteAssignments(w io.Writer, sol *scheduler.Solution) {
	for _, a := range sol.Assignments {
		regions := a.Worker.Regions.Slice()
		sort.Strings(regions)
		fmt.Fprintf(w, "\nWorker %s (Tier %s, Regions [%s]):\n", a.Worker.Name, a.Worker.Tier, strings.Join(regions, " "))
		for _, t := range a.Tasks {
			due := "none"
			if !t.DueDate.IsZero() {
				due = t.DueDate.Format("2006-01-02")
			}
			fmt.Fprintf(w, "  - %s (Priority %s, Due %s, Duration %v)\n", t.Name, t.Priority, due, t.EstimatedDuration)
		}
	}
	if len(sol.Infeasible) > 0 {
		fmt.Fprintf(w, "\nUnassignable tasks: %s\n", strings.Join(sol.Infeasible, ", "))
	}
}

// WriteViolations prints the deadline replay outcome
func WriteViolations(w io.Writer, violations map[string]float64) {
	if len(violations) == 0 {
		fmt.Fprintf(w, "\nAll tasks will meet their due dates\n")
		return
	}
	names := make([]string, 0, len(violations))
	for name := range violations {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\nDue date violations:\n")
	for _, name := range names {
		fmt.Fprintf(w, "  - %s will be %.1f units late\n", name, violations[name])
	}
}
