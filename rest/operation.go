// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/veldt-labs/atlas/internal/try"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var errNoResponse = errors.New("handler returned without writing a response")

// operation drives the request lifecycle of one registered route:
// validation, auth gate, rate limiting, handler execution and response
// emission, with a single failure handling point for every exit path.
type operation struct {
	route  *Route
	tracer trace.Tracer
	log    *slog.Logger
	limits *limiterStore
}

func newOperation(route *Route, log *slog.Logger) *operation {
	return &operation{
		route:  route,
		tracer: otel.Tracer("github.com/veldt-labs/atlas/rest"),
		log:    log,
		limits: newLimiterStore(),
	}
}

// ServeHTTP implements [http.Handler].
//
// Returned errors and panics raised anywhere in the pipeline, fatal
// helper calls included, converge on the deferred resolver below; it
// is the only place a failure response is written. The logging scope
// is closed on every exit path.
func (o *operation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope := newScope(o.log, fmt.Sprintf("%s %s %s", clientIP(r), r.Method, o.route.Path))
	defer scope.End(ctx)

	em := &emitter{
		w:     w,
		route: o.route,
		scope: scope,
	}

	var err error
	defer func() {
		if err == nil {
			return
		}
		o.resolveError(ctx, em, scope, err)
	}()
	defer try.Recover(&err)

	err = o.serve(ctx, em, scope, r)
	if err == nil && !em.wrote {
		err = errNoResponse
	}
}

func (o *operation) serve(ctx context.Context, em *emitter, scope *Scope, r *http.Request) error {
	inputs, err := o.validate(ctx, r, scope)
	if err != nil {
		return err
	}

	user, authenticated, err := o.authenticate(ctx, r, scope)
	if err != nil {
		return err
	}

	if err := checkRateLimit(r, o.route.RateLimit, o.limits, authenticated); err != nil {
		return err
	}

	answer, fatal := newContract(ctx, o.route, em)
	c := &Context{
		Context: ctx,
		Request: r,
		Query:   inputs.query,
		Body:    inputs.body,
		Params:  inputs.params,
		Headers: inputs.headers,
		User:    user,
		Device:  deviceFrom(r),
		Log:     scope,
		Answer:  answer,
		Fatal:   fatal,
		em:      em,
	}

	return scope.Process(ctx, "running handler", func(ctx context.Context) error {
		spanCtx, span := o.tracer.Start(ctx, "operation.handle")
		defer span.End()

		c.Context = spanCtx
		return o.route.Handler(c)
	})
}

func (o *operation) validate(ctx context.Context, r *http.Request, scope *Scope) (validatedInputs, error) {
	_, span := o.tracer.Start(ctx, "operation.validate")
	defer span.End()

	return validateInputs(r, o.route, scope)
}

func (o *operation) authenticate(ctx context.Context, r *http.Request, scope *Scope) (any, bool, error) {
	spanCtx, span := o.tracer.Start(ctx, "operation.authenticate")
	defer span.End()

	return authenticate(spanCtx, r, o.route.User, scope)
}

// resolveError is the single failure handling point per request. It
// classifies the error and writes exactly one response: declared
// failures produce the response the handler intended, infrastructure
// rejections their fixed shapes, and anything else a generic 500 with
// full detail going to the log sink only.
func (o *operation) resolveError(ctx context.Context, em *emitter, scope *Scope, err error) {
	var vErr *validationError
	if errors.As(err, &vErr) {
		body := map[string]any{"message": vErr.message}
		for field, violations := range vErr.fields {
			body[field] = violations
		}
		scope.Info(ctx, "rejecting invalid input", slog.String("reason", vErr.message))
		em.writeJSON(ctx, http.StatusBadRequest, nil, body)
		return
	}

	var unauthErr *unauthenticatedError
	if errors.As(err, &unauthErr) {
		scope.Info(ctx, "rejecting unauthenticated request")
		em.writeJSON(ctx, http.StatusUnauthorized, nil, map[string]any{"message": "Unauthenticated"})
		return
	}

	var forbErr *forbiddenError
	if errors.As(err, &forbErr) {
		scope.Info(ctx, "rejecting unauthorized request")
		em.writeJSON(ctx, http.StatusForbidden, nil, map[string]any{"message": "Authorization failed"})
		return
	}

	var limitErr *rateLimitError
	if errors.As(err, &limitErr) {
		scope.Info(ctx, "rejecting rate limited request")
		em.writeJSON(ctx, http.StatusTooManyRequests, nil, map[string]any{
			"message":            "You have exceeded the number of allowed requests. Please wait and try again later.",
			"rateLimitResetTime": limitErr.resetAt.UTC().Format(time.RFC3339),
		})
		return
	}

	var failure *Failure
	if errors.As(err, &failure) {
		if _, declared := o.route.Response[failure.Status]; declared {
			scope.Info(ctx, "responding with declared failure", slog.Int("status", failure.Status))
			em.emitFailure(ctx, failure)
			return
		}
		err = UndeclaredStatusError{Status: failure.Status}
	}

	scope.Error(ctx, "unexpected fault", slog.Any("error", err))
	em.writeJSON(ctx, http.StatusInternalServerError, nil, map[string]any{"message": "Something went wrong"})
}
