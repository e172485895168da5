// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"net/http"

	"github.com/veldt-labs/atlas/example/petstore/pet"
	"github.com/veldt-labs/atlas/rest"

	"github.com/getkin/kin-openapi/openapi3"
)

func ListPets(r Registry, store *pet.Store) {
	mustRegister(r, &rest.Route{
		Methods:     []string{http.MethodGet},
		Path:        "/pets",
		Description: "List every registered pet.",
		Response: rest.ResponseMap{
			http.StatusOK: rest.Response{
				Description: "All registered pets.",
				Data:        openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema()),
			},
		},
		Handler: func(c *rest.Context) error {
			pets, err := store.List(c)
			if err != nil {
				return err
			}

			c.Answer.Ok(rest.Payload{Data: pets})
			return nil
		},
	})
}
