// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net/http"
)

// Context is the per-request value handed to a [HandlerFunc]. It
// exposes the validated inputs, the resolved user, the logging scope
// and the response helpers derived from the route's [ResponseMap].
//
// It embeds the request [context.Context] so it can be passed directly
// to downstream calls that take one.
type Context struct {
	context.Context

	// Request is the raw inbound request.
	Request *http.Request

	// Query, Body, Params and Headers hold the parsed input values.
	// Fields without a declared schema stay nil.
	Query   any
	Body    any
	Params  any
	Headers any

	// User is the actor resolved by the route's [UserSpec], or nil.
	User any

	// Device is a fingerprint derived from the User-Agent header.
	Device Device

	// Log is the request's logging scope.
	Log *Scope

	// Answer exposes the success helpers for declared 2xx/3xx statuses.
	Answer Answer

	// Fatal exposes the failure helpers for declared 4xx/5xx statuses.
	Fatal Fatal

	em *emitter
}

// Respond is the generic escape hatch for declared statuses outside
// the fixed helper vocabulary. The status must still be a key of the
// route's [ResponseMap]; an undeclared status is a programmer fault
// reported to the client as a generic 500.
func (c *Context) Respond(status int, p Payload) {
	if _, ok := c.em.route.Response[status]; !ok {
		panic(UndeclaredStatusError{Status: status})
	}
	c.em.emit(c.Context, status, p)
}
