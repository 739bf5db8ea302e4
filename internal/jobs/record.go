// Package jobs defines the job-listing record model and the Source contract
// that every record reader implements.
package jobs

import (
	"context"
	"strconv"
	"strings"
)

// Field names used by the insights queries.
const (
	FieldIndustry  = "industry"
	FieldMinSalary = "min_salary"
	FieldMaxSalary = "max_salary"
)

// InvalidMarker is the literal some datasets write into salary columns
// to flag a value as known-bad.
const InvalidMarker = "invalid"

// Record is one job listing: field name to raw string value.
// A missing or unknown value is the empty string.
type Record map[string]string

// Get returns the raw value for field, or "" when absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Industry returns the record's industry, "" when unknown.
func (r Record) Industry() string {
	return r[FieldIndustry]
}

// Salary parses a salary column into a SalaryField.
func (r Record) Salary(field string) SalaryField {
	raw, ok := r[field]
	if !ok {
		return SalaryField{State: SalaryAbsent}
	}
	return ParseSalaryField(raw)
}

// Source yields the records stored at path. Each call performs a fresh read.
type Source interface {
	Read(ctx context.Context, path string) ([]Record, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context, path string) ([]Record, error)

// Read calls f(ctx, path).
func (f SourceFunc) Read(ctx context.Context, path string) ([]Record, error) {
	return f(ctx, path)
}

// SalaryState classifies a salary column value.
type SalaryState int

const (
	SalaryAbsent  SalaryState = iota // missing key or empty string
	SalaryInvalid                    // "invalid" marker or non-integer text
	SalaryPresent                    // parsed integer
)

func (s SalaryState) String() string {
	switch s {
	case SalaryAbsent:
		return "absent"
	case SalaryInvalid:
		return "invalid"
	case SalaryPresent:
		return "present"
	default:
		return "unknown"
	}
}

// SalaryField is a salary column value parsed at the record boundary.
type SalaryField struct {
	Value int
	State SalaryState
	Raw   string
}

// Valid reports whether the field holds a usable integer.
func (f SalaryField) Valid() bool {
	return f.State == SalaryPresent
}

// ParseSalaryField classifies a raw salary string.
// Surrounding whitespace is ignored; the value must be a base-10 integer.
func ParseSalaryField(raw string) SalaryField {
	s := strings.TrimSpace(raw)
	if s == "" {
		return SalaryField{State: SalaryAbsent, Raw: raw}
	}
	if s == InvalidMarker {
		return SalaryField{State: SalaryInvalid, Raw: raw}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return SalaryField{State: SalaryInvalid, Raw: raw}
	}
	return SalaryField{Value: n, State: SalaryPresent, Raw: raw}
}
