// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationSpec(t *testing.T) {
	t.Run("will flatten input schemas into parameters", func(t *testing.T) {
		schema := openapi3.NewObjectSchema().
			WithProperty("page", openapi3.NewStringSchema()).
			WithProperty("filter", openapi3.NewStringSchema())
		schema.Required = []string{"page"}

		route := &Route{
			Methods:  []string{http.MethodGet},
			Path:     "/things",
			Input:    &Input{Query: schema},
			Response: ResponseMap{http.StatusOK: Describe("ok")},
			Docs: &Docs{
				Query: map[string]FieldDoc{
					"page": {Description: "The page number.", Example: "2"},
				},
			},
		}

		op := operationSpec(route, nil)
		require.Len(t, op.Parameters, 2)

		// parameter order is deterministic: property names sorted
		filter := op.Parameters[0].Value
		assert.Equal(t, "filter", filter.Name)
		assert.Equal(t, openapi3.ParameterInQuery, filter.In)
		assert.Equal(t, noDescription, filter.Description)
		assert.False(t, filter.Required)

		page := op.Parameters[1].Value
		assert.Equal(t, "page", page.Name)
		assert.Equal(t, "The page number.", page.Description)
		assert.Equal(t, "2", page.Example)
		assert.True(t, page.Required)
	})

	t.Run("will mark every path parameter required", func(t *testing.T) {
		route := &Route{
			Methods: []string{http.MethodGet},
			Path:    "/things/{id}",
			Input: &Input{
				Params: openapi3.NewObjectSchema().
					WithProperty("id", openapi3.NewStringSchema()),
			},
			Response: ResponseMap{http.StatusOK: Describe("ok")},
		}

		op := operationSpec(route, nil)
		require.Len(t, op.Parameters, 1)

		id := op.Parameters[0].Value
		assert.Equal(t, openapi3.ParameterInPath, id.In)
		assert.True(t, id.Required)
	})

	t.Run("will embed the body schema with merged field docs", func(t *testing.T) {
		route := &Route{
			Methods: []string{http.MethodPost},
			Path:    "/things",
			Input: &Input{
				Body: openapi3.NewObjectSchema().
					WithProperty("name", openapi3.NewStringSchema()),
			},
			Response: ResponseMap{http.StatusCreated: Describe("created")},
			Docs: &Docs{
				Body: map[string]FieldDoc{
					"name": {Description: "Display name."},
				},
			},
		}

		op := operationSpec(route, nil)
		require.NotNil(t, op.RequestBody)
		require.NotNil(t, op.RequestBody.Value)
		assert.True(t, op.RequestBody.Value.Required)

		media := op.RequestBody.Value.Content.Get("application/json")
		require.NotNil(t, media)
		assert.Equal(t, "Display name.", media.Schema.Value.Properties["name"].Value.Description)
	})

	t.Run("will leave the validation schema untouched by doc merging", func(t *testing.T) {
		body := openapi3.NewObjectSchema().
			WithProperty("name", openapi3.NewStringSchema())

		route := &Route{
			Methods:  []string{http.MethodPost},
			Path:     "/things",
			Input:    &Input{Body: body},
			Response: ResponseMap{http.StatusCreated: Describe("created")},
			Docs: &Docs{
				Body: map[string]FieldDoc{
					"name": {Description: "Display name."},
				},
			},
		}

		operationSpec(route, nil)

		assert.Empty(t, body.Properties["name"].Value.Description)
	})

	t.Run("will document every declared response", func(t *testing.T) {
		route := &Route{
			Methods: []string{http.MethodGet},
			Path:    "/things",
			Response: ResponseMap{
				http.StatusOK: Response{
					Description: "The things.",
					Data:        openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()),
					Headers: openapi3.NewObjectSchema().
						WithProperty("X-Total-Count", openapi3.NewIntegerSchema()),
				},
				http.StatusNotFound: Describe("No things."),
			},
		}

		op := operationSpec(route, nil)
		require.NotNil(t, op.Responses)

		ok := op.Responses.Value("200")
		require.NotNil(t, ok)
		require.NotNil(t, ok.Value)
		assert.Equal(t, "The things.", *ok.Value.Description)
		assert.NotNil(t, ok.Value.Content.Get("application/json"))
		assert.Contains(t, ok.Value.Headers, "X-Total-Count")

		missing := op.Responses.Value("404")
		require.NotNil(t, missing)
		assert.Equal(t, "No things.", *missing.Value.Description)
	})
}

func TestRouteTags(t *testing.T) {
	tags := []tagSpec{
		{name: "items", prefix: "/items"},
		{name: "admin", prefix: "/admin"},
		{name: "all", prefix: "/"},
	}

	t.Run("will return every tag whose prefix matches", func(t *testing.T) {
		assert.Equal(t, []string{"items", "all"}, routeTags("/items/{id}", tags))
	})

	t.Run("will return nil when nothing matches", func(t *testing.T) {
		assert.Nil(t, routeTags("items", tags[:2]))
	})
}
