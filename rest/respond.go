// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"sort"
)

// Payload is the argument accepted by success helpers and the generic
// [Context.Respond] escape hatch.
//
// Message overrides the declared description for the status. Data is
// flattened into the response body: a slice or array becomes the body
// verbatim, an object is merged with the message under one envelope.
// Headers are written onto the HTTP response before the body.
type Payload struct {
	Message string
	Data    any
	Headers map[string]string
}

// Msg is a convenience for responding with a plain message, mirroring
// the rule that a bare string is treated as {message: <string>}.
func Msg(s string) Payload {
	return Payload{Message: s}
}

// successVocabulary is the fixed set of status codes which may be
// bound to a named success helper.
var successVocabulary = []int{
	http.StatusOK,
	http.StatusCreated,
	http.StatusAccepted,
	http.StatusNoContent,
	http.StatusMovedPermanently,
	http.StatusFound,
	http.StatusNotModified,
}

// fatalVocabulary is the fixed set of status codes which may be bound
// to a named fatal helper.
var fatalVocabulary = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusMethodNotAllowed,
	http.StatusConflict,
	http.StatusUnprocessableEntity,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

var defaultSuccessMessages = map[int]string{
	http.StatusOK:       "ok",
	http.StatusCreated:  "created",
	http.StatusAccepted: "accepted",
}

type successFunc func(Payload)

type fatalFunc func(message string, data []any)

// Answer holds the success helpers derived from a route's declared
// [ResponseMap]. Only statuses present in the map get a helper; calling
// a helper for an undeclared status raises an [UndeclaredStatusError]
// which the orchestrator reports as a generic 500.
type Answer struct {
	fns map[int]successFunc
}

func (a Answer) call(status int, p Payload) {
	fn, ok := a.fns[status]
	if !ok {
		panic(UndeclaredStatusError{Status: status})
	}
	fn(p)
}

// Statuses returns the sorted set of statuses for which a success
// helper was constructed: the declared response map keys intersected
// with the fixed success vocabulary.
func (a Answer) Statuses() []int {
	statuses := make([]int, 0, len(a.fns))
	for status := range a.fns {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	return statuses
}

// Ok writes a 200 response.
func (a Answer) Ok(p Payload) { a.call(http.StatusOK, p) }

// Created writes a 201 response.
func (a Answer) Created(p Payload) { a.call(http.StatusCreated, p) }

// Accepted writes a 202 response.
func (a Answer) Accepted(p Payload) { a.call(http.StatusAccepted, p) }

// NoContent writes a 204 response. The body is always empty.
func (a Answer) NoContent() { a.call(http.StatusNoContent, Payload{}) }

// MovedPermanently writes a 301 response.
func (a Answer) MovedPermanently(p Payload) { a.call(http.StatusMovedPermanently, p) }

// Found writes a 302 response.
func (a Answer) Found(p Payload) { a.call(http.StatusFound, p) }

// NotModified writes a 304 response. The body is always empty.
func (a Answer) NotModified() { a.call(http.StatusNotModified, Payload{}) }

// Fatal holds the failure helpers derived from a route's declared
// [ResponseMap]. Each helper raises a [Failure] which unwinds the call
// stack to the orchestrator; no code after a fatal helper call runs.
type Fatal struct {
	fns map[int]fatalFunc
}

func (f Fatal) call(status int, message string, data []any) {
	fn, ok := f.fns[status]
	if !ok {
		panic(UndeclaredStatusError{Status: status})
	}
	fn(message, data)
}

// Statuses returns the sorted set of statuses for which a fatal helper
// was constructed: the declared response map keys intersected with the
// fixed failure vocabulary.
func (f Fatal) Statuses() []int {
	statuses := make([]int, 0, len(f.fns))
	for status := range f.fns {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	return statuses
}

// BadRequest aborts the request with a 400 response.
func (f Fatal) BadRequest(message string, data ...any) { f.call(http.StatusBadRequest, message, data) }

// Unauthorized aborts the request with a 401 response.
func (f Fatal) Unauthorized(message string, data ...any) {
	f.call(http.StatusUnauthorized, message, data)
}

// Forbidden aborts the request with a 403 response.
func (f Fatal) Forbidden(message string, data ...any) { f.call(http.StatusForbidden, message, data) }

// NotFound aborts the request with a 404 response.
func (f Fatal) NotFound(message string, data ...any) { f.call(http.StatusNotFound, message, data) }

// MethodNotAllowed aborts the request with a 405 response.
func (f Fatal) MethodNotAllowed(message string, data ...any) {
	f.call(http.StatusMethodNotAllowed, message, data)
}

// Conflict aborts the request with a 409 response.
func (f Fatal) Conflict(message string, data ...any) { f.call(http.StatusConflict, message, data) }

// Unprocessable aborts the request with a 422 response.
func (f Fatal) Unprocessable(message string, data ...any) {
	f.call(http.StatusUnprocessableEntity, message, data)
}

// TooManyRequests aborts the request with a 429 response.
func (f Fatal) TooManyRequests(message string, data ...any) {
	f.call(http.StatusTooManyRequests, message, data)
}

// Internal aborts the request with a 500 response.
func (f Fatal) Internal(message string, data ...any) {
	f.call(http.StatusInternalServerError, message, data)
}

// BadGateway aborts the request with a 502 response.
func (f Fatal) BadGateway(message string, data ...any) { f.call(http.StatusBadGateway, message, data) }

// Unavailable aborts the request with a 503 response.
func (f Fatal) Unavailable(message string, data ...any) {
	f.call(http.StatusServiceUnavailable, message, data)
}

// GatewayTimeout aborts the request with a 504 response.
func (f Fatal) GatewayTimeout(message string, data ...any) {
	f.call(http.StatusGatewayTimeout, message, data)
}

// newContract derives the success and fatal helper sets from the
// route's declared response map, bound to the live response writer.
// Helpers are constructed only for declared statuses.
func newContract(ctx context.Context, route *Route, em *emitter) (Answer, Fatal) {
	answer := Answer{fns: make(map[int]successFunc)}
	fatal := Fatal{fns: make(map[int]fatalFunc)}

	for _, status := range successVocabulary {
		if _, ok := route.Response[status]; !ok {
			continue
		}

		answer.fns[status] = func(p Payload) {
			em.emit(ctx, status, p)
		}
	}

	for _, status := range fatalVocabulary {
		if _, ok := route.Response[status]; !ok {
			continue
		}

		fatal.fns[status] = func(message string, data []any) {
			f := &Failure{
				Status:  status,
				Message: message,
			}
			if len(data) > 0 {
				f.Data = data[0]
			}
			panic(f)
		}
	}

	return answer, fatal
}

// emitter owns all writes to the underlying HTTP response. It enforces
// the one-response-per-request guarantee: the first write wins and any
// later write is logged and dropped. Write errors, e.g. from a
// transport closed mid-flight, are tolerated, never retried.
type emitter struct {
	w     http.ResponseWriter
	route *Route
	scope *Scope
	wrote bool
}

func (em *emitter) emit(ctx context.Context, status int, p Payload) {
	message := p.Message
	if message == "" {
		message = em.route.Response[status].Description
	}
	if message == "" {
		if m, ok := defaultSuccessMessages[status]; ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	if status == http.StatusNoContent || status == http.StatusNotModified {
		em.writeHeaderOnly(ctx, status, p.Headers)
		return
	}

	em.writeJSON(ctx, status, p.Headers, shapeBody(message, p.Data))
}

func (em *emitter) emitFailure(ctx context.Context, f *Failure) {
	message := f.Message
	if message == "" {
		message = em.route.Response[f.Status].Description
	}
	if message == "" {
		message = "Something went wrong"
	}

	em.writeJSON(ctx, f.Status, f.Headers, shapeBody(message, f.Data))
}

func (em *emitter) writeHeaderOnly(ctx context.Context, status int, headers map[string]string) {
	if em.wrote {
		em.scope.Warn(ctx, "response already written", slog.Int("status", status))
		return
	}
	em.wrote = true

	for k, v := range headers {
		em.w.Header().Set(k, v)
	}
	em.w.WriteHeader(status)
}

func (em *emitter) writeJSON(ctx context.Context, status int, headers map[string]string, body any) {
	if em.wrote {
		em.scope.Warn(ctx, "response already written", slog.Int("status", status))
		return
	}
	em.wrote = true

	for k, v := range headers {
		em.w.Header().Set(k, v)
	}
	em.w.Header().Set("Content-Type", "application/json")
	em.w.WriteHeader(status)

	enc := json.NewEncoder(em.w)
	err := enc.Encode(body)
	if err == nil {
		return
	}
	em.scope.Warn(ctx, "failed to write response body", slog.Any("error", err))
}

// shapeBody applies the body shaping rule: a slice or array is the
// body verbatim; an object is flattened into the message envelope with
// data fields winning on key collision; any other value is carried
// under a "data" key.
func shapeBody(message string, data any) any {
	if data == nil {
		return map[string]any{"message": message}
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return data
	}

	body := map[string]any{"message": message}

	raw, err := json.Marshal(data)
	if err != nil {
		body["data"] = data
		return body
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		body["data"] = data
		return body
	}

	for k, v := range fields {
		body[k] = v
	}
	return body
}
