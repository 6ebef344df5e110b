package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type ErrorClass int

const (
	// ClassTransient covers rate limits, server errors and timeouts,
	// worth retrying with backoff.
	ClassTransient ErrorClass = iota
	// ClassFatal covers authentication and invalid-request failures;
	// retrying cannot help.
	ClassFatal
)

// ServiceError wraps a provider failure with its retry classification.
type ServiceError struct {
	Class  ErrorClass
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("llm service error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("llm service error: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status from a provider SDK onto the error
// taxonomy. Unknown statuses are treated as transient.
func classifyStatus(status int, err error) error {
	class := ClassTransient
	switch {
	case status == 400, status == 401, status == 403, status == 404, status == 422:
		class = ClassFatal
	case status == 408, status == 429, status >= 500:
		class = ClassTransient
	}
	return &ServiceError{Class: class, Status: status, Err: err}
}

// classifyTransport wraps non-HTTP failures (network errors, timeouts).
func classifyTransport(err error) error {
	return &ServiceError{Class: ClassTransient, Err: err}
}

// IsTransient reports whether the error is worth retrying. Errors without
// a classification (raw network failures, context deadlines) count as
// transient; only an explicit fatal class or caller cancellation does not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Class == ClassTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
