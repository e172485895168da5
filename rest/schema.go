// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Project returns a fully self-contained copy of schema: every nested
// schema reference is recursively expanded in place so the result can
// be embedded into documentation artifacts without carrying external
// references. Schema kinds without nested schemas pass through as
// opaque leaves, which also makes Project idempotent.
//
// The returned schema shares no mutable collections with its input, so
// callers are free to annotate it (e.g. merge doc descriptions) without
// affecting the schema used for validation.
func Project(schema *openapi3.Schema) *openapi3.Schema {
	if schema == nil {
		return nil
	}

	projected := *schema

	if len(schema.Properties) > 0 {
		props := make(openapi3.Schemas, len(schema.Properties))
		for name, ref := range schema.Properties {
			props[name] = projectRef(ref)
		}
		projected.Properties = props
	}

	projected.Items = projectRef(schema.Items)
	projected.Not = projectRef(schema.Not)
	projected.AllOf = projectRefs(schema.AllOf)
	projected.AnyOf = projectRefs(schema.AnyOf)
	projected.OneOf = projectRefs(schema.OneOf)

	if schema.AdditionalProperties.Schema != nil {
		projected.AdditionalProperties = openapi3.AdditionalProperties{
			Has:    schema.AdditionalProperties.Has,
			Schema: projectRef(schema.AdditionalProperties.Schema),
		}
	}

	if len(schema.Required) > 0 {
		required := make([]string, len(schema.Required))
		copy(required, schema.Required)
		projected.Required = required
	}

	return &projected
}

func projectRef(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref == nil {
		return nil
	}

	// An unresolved reference has no value to expand. Treat it as an
	// opaque leaf rather than failing.
	if ref.Value == nil {
		return ref
	}

	return openapi3.NewSchemaRef("", Project(ref.Value))
}

func projectRefs(refs openapi3.SchemaRefs) openapi3.SchemaRefs {
	if len(refs) == 0 {
		return nil
	}

	projected := make(openapi3.SchemaRefs, len(refs))
	for i, ref := range refs {
		projected[i] = projectRef(ref)
	}
	return projected
}
