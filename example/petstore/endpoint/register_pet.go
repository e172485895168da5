// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"net/http"
	"time"

	"github.com/veldt-labs/atlas/example/petstore/pet"
	"github.com/veldt-labs/atlas/rest"

	"github.com/getkin/kin-openapi/openapi3"
)

func RegisterPet(r Registry, store *pet.Store) {
	body := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("kind", openapi3.NewStringSchema().WithEnum("cat", "dog"))
	body.Required = []string{"name", "kind"}

	mustRegister(r, &rest.Route{
		Methods:     []string{http.MethodPost},
		Path:        "/pets",
		Description: "Register a new pet.",
		Input: &rest.Input{
			Body: body,
		},
		RateLimit: &rest.RateLimitSpec{
			Global: &rest.Policy{Requests: 30, Per: time.Minute},
		},
		Response: rest.ResponseMap{
			http.StatusCreated:    rest.Describe("The registered pet."),
			http.StatusBadRequest: rest.Describe("Invalid pet details."),
		},
		Docs: &rest.Docs{
			Body: map[string]rest.FieldDoc{
				"name": {Description: "The pet's display name.", Example: "Whiskers"},
				"kind": {Description: "The kind of animal.", Example: "cat"},
			},
		},
		Handler: func(c *rest.Context) error {
			fields := c.Body.(map[string]any)

			p, err := store.Register(c, fields["name"].(string), pet.Kind(fields["kind"].(string)))
			if err != nil {
				return err
			}

			c.Answer.Created(rest.Payload{Data: p})
			return nil
		},
	})
}
