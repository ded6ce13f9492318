package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError keeps a machine-readable code next to the wrapped cause.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError is a per-field, recoverable input error.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects every failing field of a form step.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	if len(parts) == 0 {
		return "validation error"
	}
	return strings.Join(parts, "; ")
}

func (e ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, v := range e {
		out = append(out, v)
	}
	return out
}

// Field returns the message recorded for field, or "".
func (e ValidationErrors) Field(field string) string {
	for _, v := range e {
		if v.Field == field {
			return v.Msg
		}
	}
	return ""
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// NetworkError means the remote endpoint could not be reached at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e NetworkError) Error() string {
	return "Unable to connect to server. Please check your connection."
}

func (e NetworkError) Unwrap() error { return e.Err }

// AuthRejectedError is a 4xx answer from an auth endpoint: bad credentials,
// a duplicate account or an expired token.
type AuthRejectedError struct {
	Status int
	Msg    string
}

func (e AuthRejectedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "authentication rejected"
}

// SubmissionError is a retryable failure of the booking confirm step.
type SubmissionError struct {
	Err error
}

func (e SubmissionError) Error() string {
	if e.Err == nil {
		return "Booking failed. Please try again."
	}
	return fmt.Sprintf("Booking failed. Please try again. (%v)", e.Err)
}

func (e SubmissionError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	if errors.As(err, &target) {
		return true
	}
	var list ValidationErrors
	return errors.As(err, &list)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsNetwork(err error) bool {
	var target NetworkError
	return errors.As(err, &target)
}

func IsAuthRejected(err error) bool {
	var target AuthRejectedError
	return errors.As(err, &target)
}

// IsUnauthorized reports a 401 rejection, the trigger for session invalidation.
func IsUnauthorized(err error) bool {
	var target AuthRejectedError
	return errors.As(err, &target) && target.Status == 401
}

func IsSubmission(err error) bool {
	var target SubmissionError
	return errors.As(err, &target)
}
