// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"github.com/veldt-labs/atlas/example/petstore/endpoint"
	"github.com/veldt-labs/atlas/example/petstore/pet"

	"github.com/veldt-labs/atlas/rest"
)

type Config struct {
	Title   string
	Version string
	ApiKey  string
}

func New(cfg Config) *rest.Api {
	api := rest.NewApi(
		cfg.Title,
		cfg.Version,
		rest.Description("A small pet registry."),
		rest.Tag("pets", "/pets", "Pet management."),
	)

	store := pet.NewStore()

	endpoint.RegisterPet(api, store)
	endpoint.FindPet(api, store)
	endpoint.ListPets(api, store)
	endpoint.AdoptPet(api, store, cfg.ApiKey)

	return api
}
