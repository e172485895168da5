// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScope() *Scope {
	return newScope(slog.New(slog.NewTextHandler(io.Discard, nil)), "test")
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	return body
}

func TestShapeBody(t *testing.T) {
	t.Run("will wrap the message alone", func(t *testing.T) {
		t.Run("if data is nil", func(t *testing.T) {
			body := shapeBody("hello", nil)
			assert.Equal(t, map[string]any{"message": "hello"}, body)
		})
	})

	t.Run("will use data verbatim", func(t *testing.T) {
		t.Run("if data is a slice", func(t *testing.T) {
			data := []string{"a", "b"}
			body := shapeBody("ignored", data)
			assert.Equal(t, data, body)
		})
	})

	t.Run("will flatten data into the envelope", func(t *testing.T) {
		t.Run("if data is an object", func(t *testing.T) {
			body := shapeBody("hello", map[string]any{"id": "abc"})
			assert.Equal(t, map[string]any{"message": "hello", "id": "abc"}, body)
		})

		t.Run("and let data win on key collision", func(t *testing.T) {
			body := shapeBody("hello", map[string]any{"message": "mine"})
			assert.Equal(t, map[string]any{"message": "mine"}, body)
		})
	})

	t.Run("will carry data under a data key", func(t *testing.T) {
		t.Run("if data is a scalar", func(t *testing.T) {
			body := shapeBody("hello", 42)
			m, ok := body.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "hello", m["message"])
			assert.EqualValues(t, 42, m["data"])
		})
	})
}

func TestNewContract(t *testing.T) {
	t.Run("will construct helpers for declared statuses only", func(t *testing.T) {
		route := &Route{
			Response: ResponseMap{
				http.StatusOK:        Describe("ok"),
				http.StatusNoContent: Describe("empty"),
				http.StatusNotFound:  Describe("missing"),
				http.StatusConflict:  Describe("dupe"),
				http.StatusTeapot:    Describe("outside both vocabularies"),
			},
		}

		answer, fatal := newContract(context.Background(), route, &emitter{
			w:     httptest.NewRecorder(),
			route: route,
			scope: newTestScope(),
		})

		assert.Equal(t, []int{http.StatusOK, http.StatusNoContent}, answer.Statuses())
		assert.Equal(t, []int{http.StatusNotFound, http.StatusConflict}, fatal.Statuses())
	})

	t.Run("will panic with an UndeclaredStatusError", func(t *testing.T) {
		t.Run("if a success helper for an undeclared status is called", func(t *testing.T) {
			route := &Route{Response: ResponseMap{http.StatusOK: Describe("ok")}}
			answer, _ := newContract(context.Background(), route, &emitter{
				w:     httptest.NewRecorder(),
				route: route,
				scope: newTestScope(),
			})

			defer func() {
				r := recover()
				require.NotNil(t, r)
				assert.Equal(t, UndeclaredStatusError{Status: http.StatusCreated}, r)
			}()
			answer.Created(Payload{})
		})

		t.Run("if a fatal helper for an undeclared status is called", func(t *testing.T) {
			route := &Route{Response: ResponseMap{http.StatusOK: Describe("ok")}}
			_, fatal := newContract(context.Background(), route, &emitter{
				w:     httptest.NewRecorder(),
				route: route,
				scope: newTestScope(),
			})

			defer func() {
				r := recover()
				require.NotNil(t, r)
				assert.Equal(t, UndeclaredStatusError{Status: http.StatusNotFound}, r)
			}()
			fatal.NotFound("nope")
		})
	})

	t.Run("will raise a Failure carrying the helper arguments", func(t *testing.T) {
		route := &Route{Response: ResponseMap{http.StatusConflict: Describe("dupe")}}
		_, fatal := newContract(context.Background(), route, &emitter{
			w:     httptest.NewRecorder(),
			route: route,
			scope: newTestScope(),
		})

		defer func() {
			r := recover()
			require.NotNil(t, r)

			failure, ok := r.(*Failure)
			require.True(t, ok)
			assert.Equal(t, http.StatusConflict, failure.Status)
			assert.Equal(t, "already exists", failure.Message)
			assert.Equal(t, map[string]any{"id": "abc"}, failure.Data)
		}()
		fatal.Conflict("already exists", map[string]any{"id": "abc"})
	})
}

func TestEmitter(t *testing.T) {
	t.Run("will default the message", func(t *testing.T) {
		t.Run("to the declared description when set", func(t *testing.T) {
			w := httptest.NewRecorder()
			route := &Route{Response: ResponseMap{http.StatusOK: Describe("All good")}}
			em := &emitter{w: w, route: route, scope: newTestScope()}

			em.emit(context.Background(), http.StatusOK, Payload{})

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, map[string]any{"message": "All good"}, decodeJSON(t, w))
		})

		t.Run("to the canonical success message otherwise", func(t *testing.T) {
			w := httptest.NewRecorder()
			route := &Route{Response: ResponseMap{http.StatusCreated: {}}}
			em := &emitter{w: w, route: route, scope: newTestScope()}

			em.emit(context.Background(), http.StatusCreated, Payload{})

			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Equal(t, map[string]any{"message": "created"}, decodeJSON(t, w))
		})
	})

	t.Run("will prefer the payload message over the declared description", func(t *testing.T) {
		w := httptest.NewRecorder()
		route := &Route{Response: ResponseMap{http.StatusOK: Describe("All good")}}
		em := &emitter{w: w, route: route, scope: newTestScope()}

		em.emit(context.Background(), http.StatusOK, Msg("custom"))

		assert.Equal(t, map[string]any{"message": "custom"}, decodeJSON(t, w))
	})

	t.Run("will write headers before the body", func(t *testing.T) {
		w := httptest.NewRecorder()
		route := &Route{Response: ResponseMap{http.StatusOK: Describe("ok")}}
		em := &emitter{w: w, route: route, scope: newTestScope()}

		em.emit(context.Background(), http.StatusOK, Payload{
			Headers: map[string]string{"X-Request-Cost": "3"},
		})

		assert.Equal(t, "3", w.Header().Get("X-Request-Cost"))
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("will omit the body entirely", func(t *testing.T) {
		t.Run("if the status is 204", func(t *testing.T) {
			w := httptest.NewRecorder()
			route := &Route{Response: ResponseMap{http.StatusNoContent: Describe("empty")}}
			em := &emitter{w: w, route: route, scope: newTestScope()}

			em.emit(context.Background(), http.StatusNoContent, Payload{})

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Empty(t, w.Body.Bytes())
		})
	})

	t.Run("will drop any write after the first", func(t *testing.T) {
		w := httptest.NewRecorder()
		route := &Route{Response: ResponseMap{http.StatusOK: Describe("ok")}}
		em := &emitter{w: w, route: route, scope: newTestScope()}

		em.writeJSON(context.Background(), http.StatusOK, nil, map[string]any{"message": "first"})
		em.writeJSON(context.Background(), http.StatusInternalServerError, nil, map[string]any{"message": "second"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"message": "first"}, decodeJSON(t, w))
	})

	t.Run("will fall back on the declared description for failures", func(t *testing.T) {
		w := httptest.NewRecorder()
		route := &Route{Response: ResponseMap{http.StatusNotFound: Describe("Gone")}}
		em := &emitter{w: w, route: route, scope: newTestScope()}

		em.emitFailure(context.Background(), &Failure{Status: http.StatusNotFound})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, map[string]any{"message": "Gone"}, decodeJSON(t, w))
	})
}
