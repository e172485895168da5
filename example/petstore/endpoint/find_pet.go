// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"errors"
	"net/http"

	"github.com/veldt-labs/atlas/example/petstore/pet"
	"github.com/veldt-labs/atlas/rest"

	"github.com/getkin/kin-openapi/openapi3"
)

func FindPet(r Registry, store *pet.Store) {
	mustRegister(r, &rest.Route{
		Methods:     []string{http.MethodGet},
		Path:        "/pets/{id}",
		Description: "Fetch one pet by id.",
		Input: &rest.Input{
			Params: openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewStringSchema().WithFormat("uuid")),
		},
		Response: rest.ResponseMap{
			http.StatusOK:       rest.Describe("The requested pet."),
			http.StatusNotFound: rest.Describe("No pet with that id."),
		},
		Docs: &rest.Docs{
			Params: map[string]rest.FieldDoc{
				"id": {Description: "The pet id assigned at registration."},
			},
		},
		Handler: func(c *rest.Context) error {
			params := c.Params.(map[string]any)

			p, err := store.Find(c, params["id"].(string))
			if errors.Is(err, pet.ErrNotFound) {
				c.Fatal.NotFound("No pet with that id")
			}
			if err != nil {
				return err
			}

			c.Answer.Ok(rest.Payload{Data: p})
			return nil
		},
	})
}
