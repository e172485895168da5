// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// UserSpec describes how a route resolves and authorizes its current
// actor. The engine only orchestrates the callbacks; it implements no
// authentication protocol itself.
type UserSpec struct {
	// Resolve returns the current user for the request, or an error
	// when none could be resolved. Returning a [*Failure] propagates
	// that exact failure to the client instead of the generic 401/403
	// mapping.
	Resolve func(ctx context.Context, r *http.Request) (any, error)

	// Required controls whether a request without a resolvable user is
	// rejected. Defaults to true when nil.
	Required *bool

	// Authorize, when set, runs after a successful resolution. A false
	// result or an error rejects the request with 403, except for a
	// returned [*Failure] which again propagates verbatim.
	Authorize func(ctx context.Context, user any) (bool, error)
}

func (s *UserSpec) required() bool {
	return s.Required == nil || *s.Required
}

type unauthenticatedError struct {
	cause error
}

func (e *unauthenticatedError) Error() string {
	if e.cause == nil {
		return "unauthenticated"
	}
	return "unauthenticated: " + e.cause.Error()
}

func (e *unauthenticatedError) Unwrap() error { return e.cause }

type forbiddenError struct {
	cause error
}

func (e *forbiddenError) Error() string {
	if e.cause == nil {
		return "authorization failed"
	}
	return "authorization failed: " + e.cause.Error()
}

func (e *forbiddenError) Unwrap() error { return e.cause }

// authenticate drives the auth gate state machine: resolve the current
// user, enforce the required policy, then run the optional authorize
// predicate. The returned bool reports whether a user was resolved,
// which also classifies the requester for rate limiting.
func authenticate(ctx context.Context, r *http.Request, spec *UserSpec, scope *Scope) (any, bool, error) {
	if spec == nil {
		return nil, false, nil
	}

	var user any
	err := scope.Process(ctx, "resolving current user", func(ctx context.Context) error {
		u, err := spec.Resolve(ctx, r)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			return nil, false, failure
		}

		if spec.required() {
			scope.Info(ctx, "user required but could not be resolved", slog.Any("error", err))
			return nil, false, &unauthenticatedError{cause: err}
		}

		scope.Info(ctx, "optional user could not be resolved, continuing as guest")
		return nil, false, nil
	}

	if spec.Authorize == nil {
		return user, true, nil
	}

	scope.Info(ctx, "additional authorization required")
	err = scope.Process(ctx, "authorizing user", func(ctx context.Context) error {
		authorized, err := spec.Authorize(ctx, user)
		if err != nil {
			return err
		}
		if !authorized {
			return errors.New("authorize predicate returned false")
		}
		return nil
	})
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			return nil, false, failure
		}
		return nil, false, &forbiddenError{cause: err}
	}

	return user, true, nil
}
