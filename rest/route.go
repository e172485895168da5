// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Input declares the validation schemas for the four request input
// fields. Each schema is optional; an absent schema means the field
// passes through unvalidated.
type Input struct {
	Query   *openapi3.Schema
	Params  *openapi3.Schema
	Body    *openapi3.Schema
	Headers *openapi3.Schema
}

// Response declares one entry of a route's [ResponseMap]: a human
// description plus optional schemas for the response data and headers.
type Response struct {
	Description string
	Data        *openapi3.Schema
	Headers     *openapi3.Schema
}

// Describe builds the bare-description form of a [Response].
func Describe(description string) Response {
	return Response{Description: description}
}

// ResponseMap declares every status code a route may emit. The success
// and fatal helper sets handed to the handler are derived from exactly
// these keys.
type ResponseMap map[int]Response

// FieldDoc is a human-authored annotation merged into the generated
// documentation for one input field.
type FieldDoc struct {
	Description string
	Example     any
}

// Docs carries the per-field documentation annotations of a route.
type Docs struct {
	Query   map[string]FieldDoc
	Params  map[string]FieldDoc
	Body    map[string]FieldDoc
	Headers map[string]FieldDoc
}

// HandlerFunc is the business logic of a route. It runs only after
// validation, authentication and rate limiting have all passed. A
// returned error is resolved at the orchestrator's single failure
// handling point; a [*Failure] produces its declared response, any
// other error a generic 500.
type HandlerFunc func(c *Context) error

// Route is the full declarative contract of one endpoint. It is
// created once at startup, registered with [Api.Register], and shared
// read-only by every request to that route.
type Route struct {
	// Methods lists the HTTP verbs this route serves.
	Methods []string

	// Path is a chi route template, e.g. "/items/{id}".
	Path string

	// Description summarizes the route for documentation.
	Description string

	// Input declares the request validation schemas.
	Input *Input

	// Response declares every status this route may emit.
	Response ResponseMap

	// User, when set, enables the auth gate.
	User *UserSpec

	// RateLimit, when set, enforces per-requester quotas.
	RateLimit *RateLimitSpec

	// Middleware wraps the request pipeline, outermost first.
	Middleware []func(http.Handler) http.Handler

	// Docs annotates input fields for documentation.
	Docs *Docs

	// Handler is the business logic.
	Handler HandlerFunc
}

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

func (r *Route) validate() error {
	if len(r.Methods) == 0 {
		return errors.New("route declares no methods")
	}
	for _, m := range r.Methods {
		if _, ok := knownMethods[strings.ToUpper(m)]; !ok {
			return fmt.Errorf("unknown method %q", m)
		}
	}
	if r.Path == "" || !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("invalid path %q", r.Path)
	}
	if r.Handler == nil {
		return errors.New("route declares no handler")
	}
	if len(r.Response) == 0 {
		return errors.New("route declares no responses")
	}
	for status := range r.Response {
		if status < 100 || status > 599 {
			return fmt.Errorf("response status %d out of range", status)
		}
	}
	return nil
}
