package eml

import (
	"fmt"
)

// ParseError indicates a raw message could not be parsed as an email.
// It is always recoverable: the dispatcher maps it to a user-facing
// "could not read this file" reply.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eml: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("eml: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}
