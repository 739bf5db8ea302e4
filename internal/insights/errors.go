package insights

import (
	"errors"
	"fmt"
)

// ErrInvalidSalaryData is returned when salary fields are missing, not
// numeric, or inverted, or when the candidate salary is not numeric.
var ErrInvalidSalaryData = errors.New("values are empty, or not numeric")

// SalaryError describes why a salary value was rejected.
// errors.Is(err, ErrInvalidSalaryData) holds for every SalaryError.
type SalaryError struct {
	Field  string // min_salary, max_salary, or salary for the candidate
	Value  string // raw value as supplied
	Reason string
}

func (e *SalaryError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrInvalidSalaryData, e.Field, e.Value, e.Reason)
}

func (e *SalaryError) Unwrap() error {
	return ErrInvalidSalaryData
}
