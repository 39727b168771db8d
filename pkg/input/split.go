package input

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// createdDateColumn is the long-form column carrying the arrival timestamp
const createdDateColumn = 1

// SplitByCreatedDate buckets a long-form CSV by the date part of its created
// date column, writing one data_<YYYY-MM-DD>.csv per date into outputDir. The
// first row is treated as a header when its created-date cell does not parse
// as a timestamp, and is replicated into every output file. Rows with
// unparseable dates are skipped with a warning. Returns row counts per date.
func SplitByCreatedDate(inputPath, outputDir string, logger *slog.Logger) (map[string]int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if len(rows) == 0 {
		return map[string]int{}, nil
	}

	var header []string
	body := rows
	if len(rows[0]) > createdDateColumn {
		if _, err := time.Parse(longFormTimeLayout, strings.TrimSpace(rows[0][createdDateColumn])); err != nil {
			header = rows[0]
			body = rows[1:]
		}
	}

	byDate := make(map[string][][]string)
	order := make([]string, 0)
	for _, row := range body {
		if len(row) <= createdDateColumn {
			logger.Warn("skipping row with missing created date")
			continue
		}
		created, err := time.Parse(longFormTimeLayout, strings.TrimSpace(row[createdDateColumn]))
		if err != nil {
			logger.Warn("skipping invalid created date", "value", row[createdDateColumn])
			continue
		}
		date := created.Format(shortFormDateLayout)
		if _, ok := byDate[date]; !ok {
			order = append(order, date)
		}
		byDate[date] = append(byDate[date], row)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	counts := make(map[string]int, len(byDate))
	for _, date := range order {
		group := byDate[date]
		path := filepath.Join(outputDir, fmt.Sprintf("data_%s.csv", date))
		if err := writeGroup(path, header, group); err != nil {
			return nil, err
		}
		counts[date] = len(group)
		logger.Info("wrote bucket", "path", path, "rows", len(group))
	}
	return counts, nil
}

func writeGroup(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header != nil {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
	}
	w.Flush()
	return w.Error()
}
