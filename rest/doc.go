// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest provides a declarative framework for defining and serving
// HTTP routes.
//
// # Overview
//
// A route is a single configuration value describing everything about an
// endpoint: its methods and path, input validation schemas, the full set
// of responses it may emit, its auth gate, its rate limits and its
// handler. Registering the route wires up the request pipeline and the
// documentation artifacts from that one value, so the runtime contract
// and the docs can never drift apart.
//
// # Quick Start
//
//	api := rest.NewApi("Bookstore", "v1.0.0")
//
//	err := api.Register(&rest.Route{
//	    Methods:     []string{http.MethodGet},
//	    Path:        "/books/{id}",
//	    Description: "Fetch one book.",
//	    Input: &rest.Input{
//	        Params: openapi3.NewObjectSchema().
//	            WithProperty("id", openapi3.NewStringSchema().WithMinLength(1)),
//	    },
//	    Response: rest.ResponseMap{
//	        http.StatusOK:       rest.Describe("The requested book."),
//	        http.StatusNotFound: rest.Describe("No such book."),
//	    },
//	    Handler: func(c *rest.Context) error {
//	        book, ok := lookup(c.Params)
//	        if !ok {
//	            c.Fatal.NotFound("Book missing")
//	        }
//	        c.Answer.Ok(rest.Payload{Data: book})
//	        return nil
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.ListenAndServe(":8080", api)
//
// Every Api additionally serves the aggregated OpenAPI document at
// GET /openapi.json, an interactive explorer at GET /docs, and for each
// registered route a machine-readable spec at GET <path>/spec/<method>
// plus a rendered page at GET <path>/docs/<method>.
//
// # Request Lifecycle
//
// Each request runs through a fixed pipeline: input validation (query,
// body, path params, headers, in that order), the auth gate, rate
// limiting, then the handler. The first stage to fail writes the
// response; later stages never run.
//
// # Responses
//
// The handler receives success and fatal helpers derived from the
// route's declared ResponseMap. Calling a helper for an undeclared
// status is a programmer fault and is reported to the client as a
// generic 500. Fatal helpers never return; they unwind to the request
// orchestrator, which writes the declared failure response.
//
// # Errors
//
// All failure paths converge at one point. Declared failures, raised
// via the Fatal helpers or returned as a [*Failure], produce exactly
// the declared response. Every other error becomes an opaque 500 with
// the detail going to the log sink only.
package rest
