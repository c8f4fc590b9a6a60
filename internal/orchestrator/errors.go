package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError is bad or missing input. It fails fast before any
// provider call and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// OutputParsingError means the provider returned a response that could
// not be structurally decoded. The provider may do better on a retry.
type OutputParsingError struct {
	Agent string
	Err   error
}

func (e *OutputParsingError) Error() string {
	return fmt.Sprintf("%s: output parsing failed: %v", e.Agent, e.Err)
}

func (e *OutputParsingError) Unwrap() error {
	return e.Err
}

// InvocationError wraps any other provider or transport failure.
type InvocationError struct {
	Agent string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: invocation failed: %v", e.Agent, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Retryable classifies which error kinds the retry loop may re-attempt:
// invocation failures and output parsing failures. Everything else
// (validation errors, context cancellation) propagates immediately.
func Retryable(err error) bool {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return true
	}
	var parseErr *OutputParsingError
	return errors.As(err, &parseErr)
}

// ValidateInputs rejects blank or whitespace-only text inputs before any
// provider call is attempted. Fields are checked in name order so the
// reported field is deterministic.
func ValidateInputs(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			return &ValidationError{Field: name, Reason: "must not be blank"}
		}
	}
	return nil
}
