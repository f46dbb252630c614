package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when an application is missing or does not belong to the user.
var ErrNotFound = errors.New("application not found")

// ValidationError wraps a user-facing validation message. Fields maps the
// offending field name to its message when the error comes from a form payload.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Msg + " (" + strings.Join(parts, "; ") + ")"
}

func fieldError(field, format string, args ...any) *ValidationError {
	msg := fmt.Sprintf(format, args...)
	return &ValidationError{Msg: msg, Fields: map[string]string{field: msg}}
}

// InvalidDateError reports a calendar date string that is not YYYY-MM-DD.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: want YYYY-MM-DD", e.Value)
}

// IsValidation reports whether err is a user-facing input problem.
func IsValidation(err error) bool {
	var ve *ValidationError
	var de *InvalidDateError
	return errors.As(err, &ve) || errors.As(err, &de)
}
