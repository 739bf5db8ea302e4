package insights

// salary_range.go holds the range validator and the salary-range filter.
//
// The validator is all-or-nothing: the candidate salary and both record
// bounds must parse, and min_salary must not exceed max_salary. The filter
// turns validator failures into skipped entries so one malformed listing
// never aborts a scan.

import (
	"context"
	"strconv"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/logging"
)

// SalaryInput is a candidate salary: a native int or an integer string.
type SalaryInput interface {
	int | string
}

// SkippedRecord is a record the salary-range filter could not evaluate.
type SkippedRecord struct {
	Index  int // position in the input slice
	Record jobs.Record
	Err    error // always wraps ErrInvalidSalaryData
}

// SalaryRangeResult is the outcome of FilterBySalaryRange.
type SalaryRangeResult struct {
	Matches []jobs.Record
	Skipped []SkippedRecord
}

// ParseSalary parses a candidate salary string.
func ParseSalary(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &SalaryError{Field: "salary", Value: s, Reason: "not an integer"}
	}
	return n, nil
}

func parseCandidate[S SalaryInput](salary S) (int, error) {
	switch v := any(salary).(type) {
	case int:
		return v, nil
	case string:
		return ParseSalary(v)
	}
	return 0, &SalaryError{Field: "salary", Reason: "unsupported type"}
}

// MatchesSalaryRange reports whether salary lies within the job's
// [min_salary, max_salary] range, both ends inclusive.
func MatchesSalaryRange[S SalaryInput](job jobs.Record, salary S) (bool, error) {
	target, err := parseCandidate(salary)
	if err != nil {
		return false, err
	}
	return matchesRange(job, target)
}

func matchesRange(job jobs.Record, target int) (bool, error) {
	lo, err := boundOf(job, jobs.FieldMinSalary)
	if err != nil {
		return false, err
	}
	hi, err := boundOf(job, jobs.FieldMaxSalary)
	if err != nil {
		return false, err
	}
	if lo.Value > hi.Value {
		return false, &SalaryError{
			Field:  jobs.FieldMinSalary,
			Value:  lo.Raw,
			Reason: "min_salary cannot be bigger than max_salary " + strconv.Itoa(hi.Value),
		}
	}
	return lo.Value <= target && target <= hi.Value, nil
}

func boundOf(job jobs.Record, field string) (jobs.SalaryField, error) {
	f := job.Salary(field)
	if !f.Valid() {
		return f, &SalaryError{Field: field, Value: f.Raw, Reason: f.State.String()}
	}
	return f, nil
}

// FilterBySalaryRange returns the records whose salary range contains salary.
// Records that fail validation are excluded, listed in Skipped, and logged
// as warnings; the scan always covers every record.
func FilterBySalaryRange[S SalaryInput](ctx context.Context, records []jobs.Record, salary S) SalaryRangeResult {
	logger := logging.FromContext(ctx)
	res := SalaryRangeResult{Matches: make([]jobs.Record, 0)}

	target, targetErr := parseCandidate(salary)

	for i, job := range records {
		ok, err := false, targetErr
		if targetErr == nil {
			ok, err = matchesRange(job, target)
		}
		if err != nil {
			logger.Warn("invalid job", "index", i, "error", err)
			res.Skipped = append(res.Skipped, SkippedRecord{Index: i, Record: job, Err: err})
			continue
		}
		if ok {
			res.Matches = append(res.Matches, job)
		}
	}

	return res
}
