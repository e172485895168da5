// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/veldt-labs/atlas/internal/try"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// FieldErrors maps a field path to the ordered list of human-readable
// violations reported for it. It is nil when a validation failure
// carried no field-level errors, only a whole-payload one.
type FieldErrors map[string][]string

type validationError struct {
	message string
	fields  FieldErrors
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.message)
}

// validatedInputs holds the parsed values for all declared input
// fields of a request. Undeclared fields stay nil.
type validatedInputs struct {
	query   any
	body    any
	params  any
	headers any
}

type inputField struct {
	name           string
	process        string
	defaultMessage string
	schema         *openapi3.Schema
	extract        func(*http.Request) (any, error)
}

// validateInputs runs the four input fields through their declared
// schemas in fixed order: query, body, params, headers. The first
// failure short-circuits; later fields are never evaluated. A field
// without a declared schema passes through unvalidated as nil.
func validateInputs(r *http.Request, route *Route, scope *Scope) (validatedInputs, error) {
	var inputs validatedInputs
	if route.Input == nil {
		return inputs, nil
	}

	fields := []inputField{
		{
			name:           "query",
			process:        "validating query parameters",
			defaultMessage: "Invalid query parameters",
			schema:         route.Input.Query,
			extract:        func(r *http.Request) (any, error) { return queryValues(r), nil },
		},
		{
			name:           "body",
			process:        "validating body",
			defaultMessage: "Invalid body",
			schema:         route.Input.Body,
			extract:        decodeBody,
		},
		{
			name:           "params",
			process:        "validating path parameters",
			defaultMessage: "Invalid path parameters",
			schema:         route.Input.Params,
			extract:        func(r *http.Request) (any, error) { return pathValues(r), nil },
		},
		{
			name:           "headers",
			process:        "validating headers",
			defaultMessage: "Invalid headers",
			schema:         route.Input.Headers,
			extract:        func(r *http.Request) (any, error) { return headerValues(r), nil },
		},
	}

	ctx := r.Context()
	for _, field := range fields {
		if field.schema == nil {
			continue
		}

		var value any
		err := scope.Process(ctx, field.process, func(_ context.Context) error {
			v, err := field.extract(r)
			if err != nil {
				return err
			}
			value = v
			return field.schema.VisitJSON(v, openapi3.MultiErrors())
		})
		if err != nil {
			message := field.defaultMessage
			if declared := route.Response[http.StatusBadRequest].Description; declared != "" {
				message = declared
			}
			return inputs, &validationError{
				message: message,
				fields:  flattenSchemaErrors(err),
			}
		}

		switch field.name {
		case "query":
			inputs.query = value
		case "body":
			inputs.body = value
		case "params":
			inputs.params = value
		case "headers":
			inputs.headers = value
		}
	}

	return inputs, nil
}

// flattenSchemaErrors walks the validation error tree and collects one
// entry per offending field path. Whole-payload errors carry no path
// and contribute nothing, which may yield nil.
func flattenSchemaErrors(err error) FieldErrors {
	fields := make(FieldErrors)
	collectSchemaErrors(err, fields)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func collectSchemaErrors(err error, fields FieldErrors) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectSchemaErrors(inner, fields)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return
	}

	path := schemaErr.JSONPointer()
	if len(path) == 0 {
		if schemaErr.Origin != nil {
			collectSchemaErrors(schemaErr.Origin, fields)
		}
		return
	}

	key := strings.Join(path, ".")
	reason := schemaErr.Reason
	if reason == "" {
		reason = schemaErr.Error()
	}
	fields[key] = append(fields[key], reason)
}

// queryValues flattens the URL query into a plain value the schema
// engine can visit: single values as strings, repeated ones as arrays.
func queryValues(r *http.Request) map[string]any {
	values := make(map[string]any)
	for name, vs := range r.URL.Query() {
		switch len(vs) {
		case 0:
		case 1:
			values[name] = vs[0]
		default:
			arr := make([]any, len(vs))
			for i, v := range vs {
				arr[i] = v
			}
			values[name] = arr
		}
	}
	return values
}

// pathValues extracts the matched chi path parameters.
func pathValues(r *http.Request) map[string]any {
	values := make(map[string]any)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return values
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		values[key] = rctx.URLParams.Values[i]
	}
	return values
}

// headerValues lower-cases header names so schemas address them the
// way they appear on the wire in HTTP/2, e.g. "x-api-key".
func headerValues(r *http.Request) map[string]any {
	values := make(map[string]any)
	for name, vs := range r.Header {
		if len(vs) == 0 {
			continue
		}
		values[strings.ToLower(name)] = vs[0]
	}
	return values
}

// decodeBody reads the request body as JSON. An absent or empty body
// decodes to nil and is left to the schema to accept or reject.
func decodeBody(r *http.Request) (_ any, err error) {
	if r.Body == nil {
		return nil, nil
	}
	defer try.Close(&err, r.Body)

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
