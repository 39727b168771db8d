package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/taskgrid/taskgrid/pkg/types"
)

// ErrRead marks a fatal input failure: missing file or unreadable CSV
var ErrRead = errors.New("cannot read task input")

const (
	longFormTimeLayout  = "2006-01-02 15:04:05"
	shortFormDateLayout = "2006-01-02"

	// DefaultDuration replaces negative estimated durations
	DefaultDuration = 5.0
)

// Options tunes the CSV adapter
type Options struct {
	// DefaultDuration substitutes negative durations; zero means the
	// package default
	DefaultDuration float64
	// Logger receives row-level warnings; nil means slog.Default
	Logger *slog.Logger
}

// Result carries the parsed tasks together with the recoverable problems the
// adapter worked around. Warnings is nil when every row parsed cleanly.
type Result struct {
	Tasks    []*types.Task
	Warnings error
}

// ReadFile parses tasks from a CSV file. Two shapes are accepted and
// distinguished by column count: the long form
// (due, created, region, tier, priority, duration, max wait, resource) and
// the short form (priority, due date, region, duration, resources, tier).
// Malformed rows are skipped and unknown enumeration values are defaulted;
// both are reported as warnings, never as a fatal error.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses tasks from CSV data; see ReadFile
func Read(r io.Reader, opts Options) (*Result, error) {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultDuration
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	res := &Result{}
	for i, row := range rows {
		rowNum := i + 1
		var task *types.Task
		switch {
		case len(row) >= 8:
			task = parseLongForm(rowNum, row, opts, res)
		case len(row) >= 6:
			task = parseShortForm(rowNum, row, opts, res)
		default:
			warn(res, opts, "row %d has insufficient columns, skipping", rowNum)
			continue
		}
		if task != nil {
			res.Tasks = append(res.Tasks, task)
		}
	}

	flagDuplicateNames(res, opts)
	return res, nil
}

// parseLongForm handles rows shaped
// DUE_TO, CREATED_DATE, REGION, TIER, PRIORITY, ESTIMATED_DURATION,
// MAXIMUM_WAITING_TIME, RESOURCE_REQUIREMENT
func parseLongForm(rowNum int, row []string, opts Options, res *Result) *types.Task {
	duration, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		warn(res, opts, "row %d: bad duration %q, skipping", rowNum, row[5])
		return nil
	}
	if duration < 0 {
		warn(res, opts, "row %d: negative duration %v, using default %v", rowNum, duration, opts.DefaultDuration)
		duration = opts.DefaultDuration
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64); err != nil {
		warn(res, opts, "row %d: bad maximum waiting time %q, skipping", rowNum, row[6])
		return nil
	}

	task := &types.Task{
		ID:                uuid.NewString(),
		Name:              strconv.Itoa(rowNum),
		Priority:          types.PriorityMedium,
		Tier:              types.Tier2,
		Region:            strings.TrimSpace(row[2]),
		EstimatedDuration: duration,
		Resources:         types.ResourceMedium,
	}

	if due, err := time.Parse(longFormTimeLayout, strings.TrimSpace(row[0])); err == nil {
		task.DueDate = due
	} else {
		warn(res, opts, "row %d: invalid due date %q, treating as none", rowNum, row[0])
	}
	if created, err := time.Parse(longFormTimeLayout, strings.TrimSpace(row[1])); err == nil {
		task.ArrivalAt = created
	} else {
		warn(res, opts, "row %d: invalid created date %q, treating as none", rowNum, row[1])
	}

	if level, err := strconv.Atoi(strings.TrimSpace(row[3])); err != nil {
		warn(res, opts, "row %d: bad tier %q, using TIER2", rowNum, row[3])
	} else if tier, err := types.TierFromLevel(level); err != nil {
		warn(res, opts, "row %d: tier level %d out of range, using TIER2", rowNum, level)
	} else {
		task.Tier = tier
	}

	if priority, err := types.ParsePriority(row[4]); err != nil {
		warn(res, opts, "row %d: invalid priority %q, using MEDIUM", rowNum, row[4])
	} else {
		task.Priority = priority
	}

	if resource, err := types.ParseResourceLevel(row[7]); err != nil {
		warn(res, opts, "row %d: invalid resource %q, using MEDIUM", rowNum, row[7])
	} else {
		task.Resources = resource
	}

	return task
}

// parseShortForm handles rows shaped
// priority, due date (YYYY-MM-DD), region, duration, resources
// (semicolon-separated), tier (TIERn)
func parseShortForm(rowNum int, row []string, opts Options, res *Result) *types.Task {
	duration, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		warn(res, opts, "row %d: bad duration %q, skipping", rowNum, row[3])
		return nil
	}
	if duration < 0 {
		warn(res, opts, "row %d: negative duration %v, using default %v", rowNum, duration, opts.DefaultDuration)
		duration = opts.DefaultDuration
	}

	task := &types.Task{
		ID:                uuid.NewString(),
		Name:              strconv.Itoa(rowNum),
		Priority:          types.PriorityMedium,
		Tier:              types.Tier2,
		Region:            strings.TrimSpace(row[2]),
		EstimatedDuration: duration,
		Resources:         resourcesFromList(row[4]),
	}

	if priority, err := types.ParsePriority(row[0]); err != nil {
		warn(res, opts, "row %d: invalid priority %q, using MEDIUM", rowNum, row[0])
	} else {
		task.Priority = priority
	}

	if due, err := time.Parse(shortFormDateLayout, strings.TrimSpace(row[1])); err == nil {
		task.DueDate = due
	} else {
		warn(res, opts, "row %d: invalid due date %q, treating as none", rowNum, row[1])
	}

	if tier, err := types.ParseTier(row[5]); err != nil {
		warn(res, opts, "row %d: invalid tier %q, using TIER2", rowNum, row[5])
	} else {
		task.Tier = tier
	}

	return task
}

// resourcesFromList maps a semicolon-separated resource list to a consumption
// level by entry count
func resourcesFromList(field string) types.ResourceLevel {
	count := 0
	for _, entry := range strings.Split(field, ";") {
		if strings.TrimSpace(entry) != "" {
			count++
		}
	}
	switch {
	case count <= 1:
		return types.ResourceLow
	case count == 2:
		return types.ResourceMedium
	default:
		return types.ResourceHigh
	}
}

// flagDuplicateNames warns about repeated display names; the core permits
// them because tasks are identified by ID
func flagDuplicateNames(res *Result, opts Options) {
	seen := make(map[string]bool, len(res.Tasks))
	for _, t := range res.Tasks {
		if seen[t.Name] {
			warn(res, opts, "duplicate task name %q", t.Name)
		}
		seen[t.Name] = true
	}
}

func warn(res *Result, opts Options, format string, args ...any) {
	err := fmt.Errorf(format, args...)
	opts.Logger.Warn("task input", "detail", err.Error())
	res.Warnings = multierror.Append(res.Warnings, err)
}
