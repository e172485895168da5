// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/veldt-labs/atlas"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type tagSpec struct {
	name        string
	prefix      string
	description string
}

// ApiOptions holds configuration values used when constructing an [Api].
type ApiOptions struct {
	description      string
	contact          *openapi3.Contact
	servers          openapi3.Servers
	tags             []tagSpec
	cors             *cors.Options
	trustedProxies   int
	bodyLimit        int64
	notFound         http.Handler
	methodNotAllowed http.Handler
}

// ApiOption configures an [Api] during construction.
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// Description sets the API description included in the central
// OpenAPI document.
func Description(s string) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.description = s
	})
}

// Contact sets the API contact info included in the central OpenAPI
// document.
func Contact(name, url, email string) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.contact = &openapi3.Contact{
			Name:  name,
			URL:   url,
			Email: email,
		}
	})
}

// Server adds a server entry to the central OpenAPI document.
func Server(url, description string) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.servers = append(ao.servers, &openapi3.Server{
			URL:         url,
			Description: description,
		})
	})
}

// Tag registers a documentation tag. Every route whose path starts
// with prefix is tagged with name in the central document.
func Tag(name, prefix, description string) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.tags = append(ao.tags, tagSpec{
			name:        name,
			prefix:      prefix,
			description: description,
		})
	})
}

// CORS enables cross-origin resource sharing with the given policy.
func CORS(opts cors.Options) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.cors = &opts
	})
}

// TrustedProxies enables client IP resolution from forwarding headers.
// Only enable this when the given number of trusted proxies sits in
// front of the process.
func TrustedProxies(n int) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.trustedProxies = n
	})
}

// BodyLimit caps the request body size in bytes for all routes.
func BodyLimit(n int64) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.bodyLimit = n
	})
}

// NotFound overrides the handler for requests matching no registered
// route.
func NotFound(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.notFound = h
	})
}

// MethodNotAllowed overrides the handler for requests to a known path
// with an unsupported method.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.methodNotAllowed = h
	})
}

// Api is the central route registry. It owns the router and the
// process-wide OpenAPI document, which is populated synchronously as
// routes register and served read-only thereafter.
//
// The lifecycle is strict: create with [NewApi], call [Api.Register]
// for every route, then serve. Registration must complete before the
// first request is accepted.
type Api struct {
	router *chi.Mux
	doc    *openapi3.T
	log    *slog.Logger
	tags   []tagSpec
}

// NewApi initializes an [Api] with an empty OpenAPI document.
//
// Every Api serves:
//   - the aggregated OpenAPI document at GET /openapi.json
//   - an interactive documentation explorer at GET /docs
func NewApi(title, version string, opts ...ApiOption) *Api {
	ao := &ApiOptions{}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	log := atlas.Logger("github.com/veldt-labs/atlas/rest")

	mux := chi.NewMux()
	if ao.trustedProxies > 0 {
		mux.Use(middleware.RealIP)
	}
	if ao.cors != nil {
		mux.Use(cors.Handler(*ao.cors))
	}
	if ao.bodyLimit > 0 {
		mux.Use(bodyLimit(ao.bodyLimit))
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: ao.description,
			Contact:     ao.contact,
		},
		Servers: ao.servers,
		Paths:   openapi3.NewPaths(),
	}
	for _, tag := range ao.tags {
		doc.Tags = append(doc.Tags, &openapi3.Tag{
			Name:        tag.name,
			Description: tag.description,
		})
	}

	mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		err := enc.Encode(doc)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode openapi document to json",
			slog.Any("error", err),
		)
	})

	mux.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, err := w.Write([]byte(explorerPage(title)))
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to write docs explorer page",
			slog.Any("error", err),
		)
	})

	notFound := ao.notFound
	if notFound == nil {
		notFound = jsonMessageHandler(http.StatusNotFound, "Resource not found")
	}
	mux.NotFound(notFound.ServeHTTP)

	methodNotAllowed := ao.methodNotAllowed
	if methodNotAllowed == nil {
		methodNotAllowed = jsonMessageHandler(http.StatusMethodNotAllowed, "Method not allowed")
	}
	mux.MethodNotAllowed(methodNotAllowed.ServeHTTP)

	return &Api{
		router: mux,
		doc:    doc,
		log:    log,
		tags:   ao.tags,
	}
}

// Register wires one [Route] into the Api: a request pipeline per
// declared method, the per-route documentation endpoints, and the
// operation merged into the central OpenAPI document.
func (a *Api) Register(route *Route) error {
	if err := route.validate(); err != nil {
		return err
	}

	tags := routeTags(route.Path, a.tags)
	op := operationSpec(route, tags)

	methods := make([]string, len(route.Methods))
	for i, m := range route.Methods {
		methods[i] = strings.ToUpper(m)
	}

	item := a.doc.Paths.Value(route.Path)
	if item == nil {
		item = &openapi3.PathItem{}
		a.doc.Paths.Set(route.Path, item)
	}

	var handler http.Handler = otelhttp.WithRouteTag(route.Path, newOperation(route, a.log))
	for i := len(route.Middleware) - 1; i >= 0; i-- {
		handler = route.Middleware[i](handler)
	}

	for _, method := range methods {
		item.SetOperation(method, op)
		a.router.Method(method, route.Path, handler)

		spec := &OperationSpec{
			Path:    route.Path,
			Methods: []string{strings.ToLower(method)},
			Spec:    op,
		}
		a.router.Get(route.Path+"/spec/"+strings.ToLower(method), specHandler(a.log, spec))
		a.router.Get(route.Path+"/docs/"+strings.ToLower(method), htmlHandler(a.log, spec))
	}

	return nil
}

// Doc exposes the central OpenAPI document. It must be treated as
// read-only once the Api starts serving requests.
func (a *Api) Doc() *openapi3.T {
	return a.doc
}

// ServeHTTP implements the [http.Handler] interface.
func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func specHandler(log *slog.Logger, spec *OperationSpec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		err := enc.Encode(spec)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode operation spec to json",
			slog.Any("error", err),
		)
	}
}

func htmlHandler(log *slog.Logger, spec *OperationSpec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := renderHTML(spec)
		if err != nil {
			log.ErrorContext(
				r.Context(),
				"failed to render documentation page",
				slog.Any("error", err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, err = w.Write([]byte(page))
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to write documentation page",
			slog.Any("error", err),
		)
	}
}

func jsonMessageHandler(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"message": message}) //nolint:errcheck // best effort after WriteHeader
	}
}

func bodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

func explorerPage(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>` + title + `</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({
  url: "/openapi.json",
  dom_id: "#swagger-ui",
  docExpansion: "none",
  defaultModelsExpandDepth: -1
});
</script>
</body>
</html>
`
}
