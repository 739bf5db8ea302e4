package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/logging"
)

// MaxSalary reads path from src and returns the highest max_salary.
//
// The accumulator starts at 0, so a dataset with no positive max_salary
// yields 0 rather than "no data". Empty, "invalid" and unparseable values
// are skipped.
func MaxSalary(ctx context.Context, src jobs.Source, path string) (int, error) {
	records, err := src.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	highest, skipped := foldSalary(records, jobs.FieldMaxSalary, 0, maxInt)
	logSkipped(ctx, jobs.FieldMaxSalary, path, skipped)
	return highest, nil
}

// MinSalary reads path from src and returns the lowest min_salary.
//
// The accumulator is seeded with MaxSalary over the same path, which is a
// second, independent read. The result therefore never exceeds the dataset's
// highest max_salary. Use LowestMinSalary for a minimum without that seed.
func MinSalary(ctx context.Context, src jobs.Source, path string) (int, error) {
	records, err := src.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	seed, err := MaxSalary(ctx, src, path)
	if err != nil {
		return 0, err
	}

	lowest, skipped := foldSalary(records, jobs.FieldMinSalary, seed, minInt)
	logSkipped(ctx, jobs.FieldMinSalary, path, skipped)
	return lowest, nil
}

// HighestMaxSalary is MaxSalary over records already in memory.
func HighestMaxSalary(records []jobs.Record) int {
	highest, _ := foldSalary(records, jobs.FieldMaxSalary, 0, maxInt)
	return highest
}

// LowestMinSalary returns the lowest valid min_salary in records.
// ok is false when no record carries one.
func LowestMinSalary(records []jobs.Record) (lowest int, ok bool) {
	for _, r := range records {
		f := r.Salary(jobs.FieldMinSalary)
		if !f.Valid() {
			continue
		}
		if !ok || f.Value < lowest {
			lowest, ok = f.Value, true
		}
	}
	return lowest, ok
}

// foldSalary folds the valid values of field into acc.
// skipped counts values that were present but not integers.
func foldSalary(records []jobs.Record, field string, acc int, pick func(acc, v int) int) (int, int) {
	skipped := 0
	for _, r := range records {
		f := r.Salary(field)
		switch f.State {
		case jobs.SalaryPresent:
			acc = pick(acc, f.Value)
		case jobs.SalaryInvalid:
			if strings.TrimSpace(f.Raw) != jobs.InvalidMarker {
				skipped++
			}
		}
	}
	return acc, skipped
}

func logSkipped(ctx context.Context, field, path string, skipped int) {
	if skipped == 0 {
		return
	}
	logging.FromContext(ctx).Debug("skipped unparseable salary values",
		"field", field,
		"path", path,
		"count", skipped,
	)
}

func maxInt(acc, v int) int {
	if v > acc {
		return v
	}
	return acc
}

func minInt(acc, v int) int {
	if v < acc {
		return v
	}
	return acc
}
