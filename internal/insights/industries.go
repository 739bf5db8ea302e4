package insights

import (
	"context"
	"fmt"
	"sort"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

// UniqueIndustries reads path from src and returns its distinct non-empty
// industries. The slice is sorted, but callers should treat it as a set.
func UniqueIndustries(ctx context.Context, src jobs.Source, path string) ([]string, error) {
	records, err := src.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Industries(records), nil
}

// Industries returns the distinct non-empty industries in records, sorted.
func Industries(records []jobs.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if industry := r.Industry(); industry != "" {
			seen[industry] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for industry := range seen {
		result = append(result, industry)
	}
	sort.Strings(result)
	return result
}

// FilterByIndustry returns the records whose industry equals industry
// exactly, in their original order.
func FilterByIndustry(records []jobs.Record, industry string) []jobs.Record {
	result := make([]jobs.Record, 0)
	for _, r := range records {
		if r.Industry() == industry {
			result = append(result, r)
		}
	}
	return result
}
