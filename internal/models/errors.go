package models

import "fmt"

// Code is a machine-readable error code.
type Code string

const (
	// CodeInvalidInput covers malformed records and conferences too small to seed.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeScenarioInconsistency covers scenarios that contradict themselves or the snapshot.
	CodeScenarioInconsistency Code = "SCENARIO_INCONSISTENCY"
	// CodeNotFound covers team and conference lookups that match nothing.
	CodeNotFound Code = "NOT_FOUND"
)

var (
	ErrInvalidInput          = &Error{Code: CodeInvalidInput}
	ErrScenarioInconsistency = &Error{Code: CodeScenarioInconsistency}
	ErrNotFound              = &Error{Code: CodeNotFound}
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func InvalidInput(format string, args ...any) error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func ScenarioInconsistency(format string, args ...any) error {
	return &Error{Code: CodeScenarioInconsistency, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}
