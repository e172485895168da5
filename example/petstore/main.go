// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"net/http"
	"os"

	"github.com/veldt-labs/atlas/example/petstore/app"
)

func main() {
	api := app.New(app.Config{
		Title:   "Petstore",
		Version: "v0.1.0",
		ApiKey:  os.Getenv("PETSTORE_API_KEY"),
	})

	err := http.ListenAndServe(":8080", api)
	if err != nil {
		os.Exit(1)
	}
}
