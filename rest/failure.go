// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import "fmt"

// Failure is a structured, declared business failure. It carries the
// exact status, message, data and headers the handler wants the client
// to receive and unwinds the call stack to the single failure handling
// point owned by the request orchestrator.
//
// Failures are raised by the [Fatal] helpers, which panic, so deeply
// nested business logic can abort a request without threading return
// values up every call frame. A Failure may also simply be returned as
// an error from a [HandlerFunc], a [UserSpec] resolver or an authorize
// predicate; both channels converge at the same catch point.
//
// Invariant: Status must be a key of the route's [ResponseMap]. A
// Failure carrying an undeclared status is a programmer fault and is
// reported to the client as a generic 500.
type Failure struct {
	Status  int
	Message string
	Data    any
	Headers map[string]string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Message == "" {
		return fmt.Sprintf("failure: status %d", f.Status)
	}
	return fmt.Sprintf("failure: status %d: %s", f.Status, f.Message)
}

// NewFailure initializes a [Failure] for the given declared status.
func NewFailure(status int, message string) *Failure {
	return &Failure{
		Status:  status,
		Message: message,
	}
}

// UndeclaredStatusError reports an attempt to emit a response with a
// status code that is not a key of the route's [ResponseMap].
type UndeclaredStatusError struct {
	Status int
}

// Error implements the error interface.
func (e UndeclaredStatusError) Error() string {
	return fmt.Sprintf("status %d is not declared in the route response map", e.Status)
}
