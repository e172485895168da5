// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPathParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestValidateInputs(t *testing.T) {
	t.Run("will pass everything through as nil", func(t *testing.T) {
		t.Run("if the route declares no input schemas", func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/things?extra=1", nil)

			inputs, err := validateInputs(r, &Route{}, newTestScope())

			require.NoError(t, err)
			assert.Nil(t, inputs.query)
			assert.Nil(t, inputs.body)
			assert.Nil(t, inputs.params)
			assert.Nil(t, inputs.headers)
		})
	})

	t.Run("will report field level errors", func(t *testing.T) {
		t.Run("if a query parameter violates its schema", func(t *testing.T) {
			route := &Route{
				Input: &Input{
					Query: openapi3.NewObjectSchema().
						WithProperty("page", openapi3.NewStringSchema().WithMinLength(6)),
				},
			}
			r := httptest.NewRequest(http.MethodGet, "/things?page=ab", nil)

			_, err := validateInputs(r, route, newTestScope())
			require.Error(t, err)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Invalid query parameters", vErr.message)
			assert.Contains(t, vErr.fields, "page")
			assert.NotEmpty(t, vErr.fields["page"])
		})

		t.Run("if a path parameter violates its schema", func(t *testing.T) {
			route := &Route{
				Input: &Input{
					Params: openapi3.NewObjectSchema().
						WithProperty("id", openapi3.NewStringSchema().WithMinLength(6)),
				},
			}
			r := httptest.NewRequest(http.MethodGet, "/things/ab", nil)
			r = withPathParams(r, map[string]string{"id": "ab"})

			_, err := validateInputs(r, route, newTestScope())
			require.Error(t, err)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Invalid path parameters", vErr.message)
			assert.Contains(t, vErr.fields, "id")
		})

		t.Run("if a header violates its schema", func(t *testing.T) {
			route := &Route{
				Input: &Input{
					Headers: openapi3.NewObjectSchema().
						WithProperty("x-api-key", openapi3.NewStringSchema().WithMinLength(8)),
				},
			}
			r := httptest.NewRequest(http.MethodGet, "/things", nil)
			r.Header.Set("X-Api-Key", "short")

			_, err := validateInputs(r, route, newTestScope())
			require.Error(t, err)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Invalid headers", vErr.message)
			assert.Contains(t, vErr.fields, "x-api-key")
		})
	})

	t.Run("will evaluate the inputs in fixed order", func(t *testing.T) {
		t.Run("and stop at the first failing field", func(t *testing.T) {
			route := &Route{
				Input: &Input{
					Query: openapi3.NewObjectSchema().
						WithProperty("page", openapi3.NewStringSchema().WithMinLength(6)),
					Body: openapi3.NewObjectSchema(),
				},
			}
			r := httptest.NewRequest(http.MethodPost, "/things?page=ab", strings.NewReader("not json"))

			_, err := validateInputs(r, route, newTestScope())
			require.Error(t, err)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Invalid query parameters", vErr.message)
		})
	})

	t.Run("will prefer the declared 400 description", func(t *testing.T) {
		t.Run("over the default message for the failing field", func(t *testing.T) {
			route := &Route{
				Input: &Input{
					Query: openapi3.NewObjectSchema().
						WithProperty("page", openapi3.NewStringSchema().WithMinLength(6)),
				},
				Response: ResponseMap{
					http.StatusBadRequest: Describe("Bad input"),
				},
			}
			r := httptest.NewRequest(http.MethodGet, "/things?page=ab", nil)

			_, err := validateInputs(r, route, newTestScope())
			require.Error(t, err)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Bad input", vErr.message)
		})
	})

	t.Run("will reject malformed json", func(t *testing.T) {
		t.Run("with the body message and no field errors", func(t *testing.T) {
			route := &Route{
				Input: &Input{Body: openapi3.NewObjectSchema()},
			}
			r := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader("{not json"))

			_, err := validateInputs(r, route, newTestScope())
			require.Error(t, err)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Invalid body", vErr.message)
			assert.Nil(t, vErr.fields)
		})
	})

	t.Run("will hand the parsed values to the caller", func(t *testing.T) {
		route := &Route{
			Input: &Input{
				Query: openapi3.NewObjectSchema().
					WithProperty("page", openapi3.NewStringSchema()),
				Body: openapi3.NewObjectSchema().
					WithProperty("name", openapi3.NewStringSchema()),
				Params: openapi3.NewObjectSchema().
					WithProperty("id", openapi3.NewStringSchema()),
				Headers: openapi3.NewObjectSchema().
					WithProperty("x-api-key", openapi3.NewStringSchema()),
			},
		}
		r := httptest.NewRequest(http.MethodPost, "/things/abc?page=2", strings.NewReader(`{"name":"thing"}`))
		r.Header.Set("X-Api-Key", "super-secret")
		r = withPathParams(r, map[string]string{"id": "abc"})

		inputs, err := validateInputs(r, route, newTestScope())
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"page": "2"}, inputs.query)
		assert.Equal(t, map[string]any{"name": "thing"}, inputs.body)
		assert.Equal(t, map[string]any{"id": "abc"}, inputs.params)

		headers, ok := inputs.headers.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "super-secret", headers["x-api-key"])
	})

	t.Run("will flatten repeated query parameters into an array", func(t *testing.T) {
		route := &Route{
			Input: &Input{
				Query: openapi3.NewObjectSchema().
					WithProperty("tag", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())),
			},
		}
		r := httptest.NewRequest(http.MethodGet, "/things?tag=a&tag=b", nil)

		inputs, err := validateInputs(r, route, newTestScope())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"tag": []any{"a", "b"}}, inputs.query)
	})
}
