// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"sort"
	"strings"

	"github.com/veldt-labs/atlas/internal/ptr"

	"github.com/getkin/kin-openapi/openapi3"
)

const noDescription = "No description provided"

// OperationSpec is the machine-readable documentation artifact of one
// registered route, served at GET <path>/spec/<method>.
type OperationSpec struct {
	Path    string              `json:"path"`
	Methods []string            `json:"methods"`
	Spec    *openapi3.Operation `json:"spec"`
}

// operationSpec projects the route's schemas into one self-contained
// OpenAPI operation. The same object is merged into the central
// document and rendered to HTML; runtime validation and documentation
// share the exact schema values.
func operationSpec(route *Route, tags []string) *openapi3.Operation {
	op := &openapi3.Operation{
		Summary: route.Description,
		Tags:    tags,
	}

	var docs Docs
	if route.Docs != nil {
		docs = *route.Docs
	}

	if route.Input != nil {
		op.Parameters = append(op.Parameters, parameters(route.Input.Query, openapi3.ParameterInQuery, docs.Query, false)...)
		op.Parameters = append(op.Parameters, parameters(route.Input.Params, openapi3.ParameterInPath, docs.Params, true)...)
		op.Parameters = append(op.Parameters, parameters(route.Input.Headers, openapi3.ParameterInHeader, docs.Headers, false)...)

		if route.Input.Body != nil {
			body := Project(route.Input.Body)
			mergeFieldDocs(body, docs.Body)
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: &openapi3.RequestBody{
					Required: true,
					Content:  openapi3.NewContentWithJSONSchema(body),
				},
			}
		}
	}

	op.Responses = responses(route.Response)
	return op
}

// parameters flattens an object schema's properties into one OpenAPI
// parameter per property. Path parameters are always required; other
// fields are required when the schema lists them as such.
func parameters(schema *openapi3.Schema, in string, docs map[string]FieldDoc, alwaysRequired bool) openapi3.Parameters {
	if schema == nil {
		return nil
	}

	projected := Project(schema)

	names := make([]string, 0, len(projected.Properties))
	for name := range projected.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(openapi3.Parameters, 0, len(names))
	for _, name := range names {
		doc := docs[name]
		description := doc.Description
		if description == "" {
			description = noDescription
		}

		required := alwaysRequired
		for _, r := range projected.Required {
			if r == name {
				required = true
			}
		}

		params = append(params, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:        name,
				In:          in,
				Description: description,
				Required:    required,
				Example:     doc.Example,
				Schema:      projected.Properties[name],
			},
		})
	}
	return params
}

func mergeFieldDocs(schema *openapi3.Schema, docs map[string]FieldDoc) {
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}

		description := docs[name].Description
		if description == "" {
			description = noDescription
		}
		ref.Value.Description = description
	}
}

func responses(m ResponseMap) *openapi3.Responses {
	statuses := make([]int, 0, len(m))
	for status := range m {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)

	opts := make([]openapi3.NewResponsesOption, 0, len(statuses))
	for _, status := range statuses {
		declared := m[status]

		description := declared.Description
		if description == "" {
			description = "No description"
		}

		resp := &openapi3.Response{
			Description: ptr.Ref(description),
		}
		if declared.Data != nil {
			resp.Content = openapi3.NewContentWithJSONSchema(Project(declared.Data))
		}
		if declared.Headers != nil {
			resp.Headers = responseHeaders(declared.Headers)
		}

		opts = append(opts, openapi3.WithStatus(status, &openapi3.ResponseRef{Value: resp}))
	}

	return openapi3.NewResponses(opts...)
}

func responseHeaders(schema *openapi3.Schema) openapi3.Headers {
	projected := Project(schema)

	headers := make(openapi3.Headers, len(projected.Properties))
	for name, ref := range projected.Properties {
		headers[name] = &openapi3.HeaderRef{
			Value: &openapi3.Header{
				Parameter: openapi3.Parameter{
					Schema: ref,
				},
			},
		}
	}
	return headers
}

// routeTags returns the names of every configured tag whose prefix the
// path starts with. A path may match multiple or zero tags.
func routeTags(path string, tags []tagSpec) []string {
	var matched []string
	for _, tag := range tags {
		if strings.HasPrefix(path, tag.prefix) {
			matched = append(matched, tag.name)
		}
	}
	return matched
}
