// Package insights provides the query helpers over job-listing records.
//
// This package holds all domain logic independent of where records come
// from or how results are presented. It can be used by the HTTP server,
// the CLI, or tests without modification.
//
// # Aggregations
//
// Aggregations take a [jobs.Source] and a path, perform their own read, and
// fold the records with a local accumulator:
//
//   - [UniqueIndustries]: distinct non-empty industry values
//   - [MaxSalary]: highest max_salary, starting from 0
//   - [MinSalary]: lowest min_salary, seeded with a second [MaxSalary] read
//
// Pure variants ([Industries], [HighestMaxSalary], [LowestMinSalary]) operate
// on records already in memory.
//
// # Filters
//
// Filters never mutate their input and preserve record order:
//
//	tech := insights.FilterByIndustry(records, "Tech")
//	res := insights.FilterBySalaryRange(ctx, tech, 75000)
//	for _, skip := range res.Skipped {
//	    fmt.Println(skip.Index, skip.Err)
//	}
//
// # Salary Validation
//
// [MatchesSalaryRange] is all-or-nothing: a missing key, a non-integer value,
// or min_salary > max_salary yields an error wrapping [ErrInvalidSalaryData].
// [FilterBySalaryRange] converts those errors into skipped entries and a
// warning log; it never fails.
//
// # Error Codes
//
// [MapError] turns technical errors into a [UserMessage] with a support code:
//
//   - VAL001-VAL099: salary validation errors
//   - FILE001-FILE099: dataset file errors
//   - SRC001-SRC099: database and object-store source errors
//   - REQ001-REQ099: cancelled or timed-out requests
package insights
