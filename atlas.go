// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package atlas provides shared building blocks for the atlas route engine.
package atlas

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which is bridged to the
// OpenTelemetry logging pipeline.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns the underlying [slog.Handler] used by [Logger].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
