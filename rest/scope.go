// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Scope is the per-request logging scope. It carries an ordered stack
// of source labels and currently running process names, so every log
// line records where in the request lifecycle it was emitted.
//
// A Scope belongs to exactly one request and is never shared across
// goroutines, so it needs no locking.
type Scope struct {
	log       *slog.Logger
	sources   []string
	processes []string
}

func newScope(log *slog.Logger, source string) *Scope {
	return &Scope{
		log:     log.With(slog.String("request_id", uuid.NewString())),
		sources: []string{source},
	}
}

func (s *Scope) source() string {
	return s.sources[len(s.sources)-1]
}

func (s *Scope) attrs(extra ...any) []any {
	args := []any{slog.String("source", s.source())}
	if len(s.processes) > 0 {
		args = append(args, slog.String("process", s.processes[len(s.processes)-1]))
	}
	return append(args, extra...)
}

// Push adds a nested source label to the scope.
func (s *Scope) Push(source string) {
	s.sources = append(s.sources, source)
}

// Pop removes the most recently pushed source label. The label the
// scope was created with is never removed.
func (s *Scope) Pop() {
	if len(s.sources) > 1 {
		s.sources = s.sources[:len(s.sources)-1]
	}
}

// Info logs an informational message within the current scope.
func (s *Scope) Info(ctx context.Context, msg string, extra ...any) {
	s.log.InfoContext(ctx, msg, s.attrs(extra...)...)
}

// Warn logs a warning within the current scope.
func (s *Scope) Warn(ctx context.Context, msg string, extra ...any) {
	s.log.WarnContext(ctx, msg, s.attrs(extra...)...)
}

// Error logs an error within the current scope.
func (s *Scope) Error(ctx context.Context, msg string, extra ...any) {
	s.log.ErrorContext(ctx, msg, s.attrs(extra...)...)
}

// Process runs fn as a named traced process: a begin line is logged
// before fn runs and an end line after it returns, with the process
// name attached to every line logged in between.
func (s *Scope) Process(ctx context.Context, name string, fn func(context.Context) error) error {
	s.processes = append(s.processes, name)
	s.log.InfoContext(ctx, "starting", s.attrs()...)

	err := fn(ctx)
	if err != nil {
		s.log.InfoContext(ctx, "stopped", s.attrs(slog.String("reason", err.Error()))...)
	} else {
		s.log.InfoContext(ctx, "done", s.attrs()...)
	}

	s.processes = s.processes[:len(s.processes)-1]
	return err
}

// End closes the scope. It must be called exactly once per request.
func (s *Scope) End(ctx context.Context) {
	s.log.InfoContext(ctx, "request complete", s.attrs()...)
}
