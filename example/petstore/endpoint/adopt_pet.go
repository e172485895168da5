// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"errors"
	"net/http"

	"github.com/veldt-labs/atlas/example/petstore/pet"
	"github.com/veldt-labs/atlas/rest"

	"github.com/getkin/kin-openapi/openapi3"
)

// AdoptPet requires a staff api key, demonstrating the auth gate.
func AdoptPet(r Registry, store *pet.Store, apiKey string) {
	mustRegister(r, &rest.Route{
		Methods:     []string{http.MethodPost},
		Path:        "/pets/{id}/adopt",
		Description: "Mark a pet as adopted.",
		Input: &rest.Input{
			Params: openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewStringSchema().WithFormat("uuid")),
			Headers: openapi3.NewObjectSchema().
				WithProperty("x-api-key", openapi3.NewStringSchema()),
		},
		User: &rest.UserSpec{
			Resolve: func(ctx context.Context, r *http.Request) (any, error) {
				if r.Header.Get("X-Api-Key") != apiKey {
					return nil, errors.New("unknown api key")
				}
				return "staff", nil
			},
		},
		Response: rest.ResponseMap{
			http.StatusOK:           rest.Describe("The adopted pet."),
			http.StatusUnauthorized: rest.Describe("Missing or invalid api key."),
			http.StatusNotFound:     rest.Describe("No pet with that id."),
		},
		Handler: func(c *rest.Context) error {
			params := c.Params.(map[string]any)

			p, err := store.Adopt(c, params["id"].(string))
			if errors.Is(err, pet.ErrNotFound) {
				c.Fatal.NotFound("No pet with that id")
			}
			if err != nil {
				return err
			}

			c.Log.Info(c, "pet adopted")
			c.Answer.Ok(rest.Payload{Data: p})
			return nil
		},
	})
}
