package insights

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// Errors are classified with errors.Is / errors.As first. Only when no typed
// check matches are patterns compared case-insensitively with
// strings.Contains, since messages may echo a client-supplied path. First
// match wins in both passes, so specific entries come before general ones:
//
//	VAL001  - Salary values are empty or not numeric
//	VAL002  - Requested salary is not a whole number
//	FILE001 - Dataset file not found
//	FILE002 - Dataset is not valid CSV
//	FILE003 - Path escapes the dataset root
//	FILE004 - Dataset has no header row
//	SRC001  - Record source unreachable
//	SRC002  - Object not found in bucket
//	SRC003  - Table not found
//	SRC004  - Unknown source kind
//	SRC005  - Dataset not on the allowlist
//	REQ001  - Request cancelled
//	REQ002  - Request timed out
//	ERR000  - Fallback

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	is      func(error) bool // typed check, tried before any pattern
	pattern string
	msg     UserMessage
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func asErr[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

func isCandidateSalary(err error) bool {
	var se *SalaryError
	return errors.As(err, &se) && se.Field == "salary"
}

var errorPatterns = []errorPattern{
	// Validation
	{
		is:      isCandidateSalary,
		pattern: `: salary "`,
		msg: UserMessage{
			Message: "Requested salary is not a whole number",
			Action:  "Pass the salary as digits only, e.g. 75000",
			Code:    "VAL002",
		},
	},
	{
		is:      isErr(ErrInvalidSalaryData),
		pattern: "values are empty, or not numeric",
		msg: UserMessage{
			Message: "Salary values are empty or not numeric",
			Action:  "Check that min_salary and max_salary are whole numbers with min <= max",
			Code:    "VAL001",
		},
	},

	// Files
	{
		is:      isErr(fs.ErrNotExist),
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "Dataset file not found",
			Action:  "Verify the dataset path",
			Code:    "FILE001",
		},
	},
	{
		is:      asErr[*csv.ParseError](),
		pattern: "parse csv",
		msg: UserMessage{
			Message: "Dataset is not a valid CSV file",
			Action:  "Ensure the file is comma-separated with consistent quoting",
			Code:    "FILE002",
		},
	},
	{
		is:      isErr(jobs.ErrInvalidPath),
		pattern: "invalid path",
		msg: UserMessage{
			Message: "Dataset path is not allowed",
			Action:  "Use a path inside the configured dataset directory",
			Code:    "FILE003",
		},
	},
	{
		pattern: "missing header",
		msg: UserMessage{
			Message: "Dataset has no header row",
			Action:  "Add a header row naming each column",
			Code:    "FILE004",
		},
	},

	// Sources
	{
		is:      isErr(syscall.ECONNREFUSED),
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the record source",
			Action:  "Please try again in a few moments",
			Code:    "SRC001",
		},
	},
	{
		is:      isErr(jobs.ErrObjectNotFound),
		pattern: "nosuchkey",
		msg: UserMessage{
			Message: "Dataset object not found in bucket",
			Action:  "Verify the object key",
			Code:    "SRC002",
		},
	},
	{
		is:      isErr(jobs.ErrTableNotFound),
		pattern: "does not exist",
		msg: UserMessage{
			Message: "Dataset table not found",
			Action:  "Verify the table name",
			Code:    "SRC003",
		},
	},
	{
		is:      isErr(jobs.ErrPathNotAllowed),
		pattern: "path not allowed",
		msg: UserMessage{
			Message: "Dataset is not available",
			Action:  "Request one of the datasets configured in SOURCE_ALLOWED_PATHS",
			Code:    "SRC005",
		},
	},
	{
		pattern: "unknown source kind",
		msg: UserMessage{
			Message: "Record source is not configured",
			Action:  "Set SOURCE_KIND to file, postgres, or s3",
			Code:    "SRC004",
		},
	},

	// Requests
	{
		is:      isErr(context.Canceled),
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		is:      isErr(context.DeadlineExceeded),
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller dataset or try again later",
			Code:    "REQ002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error and ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ep := range errorPatterns {
		if ep.is != nil && ep.is(err) {
			return ep.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if ep.pattern != "" && strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsValidationError reports whether err came from salary validation
// rather than from the record source.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSalaryData)
}
