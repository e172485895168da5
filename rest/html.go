// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"html/template"
	"sort"
	"strings"
)

type htmlParam struct {
	Name        string
	In          string
	Description string
	Required    bool
	Schema      string
}

type htmlResponse struct {
	Status      string
	Description string
	Schema      string
}

type htmlDoc struct {
	Path        string
	Methods     []string
	Summary     string
	Parameters  []htmlParam
	RequestBody string
	Responses   []htmlResponse
}

var docPage = template.Must(template.New("route-docs").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Path}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; margin: 20px; color: #333; background-color: #f9f9f9; }
.container { max-width: 1200px; margin: auto; padding: 20px; background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
.badge { text-transform: uppercase; color: #fff; padding: 5px 10px; border-radius: 5px; font-size: 12px; margin-right: 5px; display: inline-block; }
.get { background-color: #4CAF50; }
.post { background-color: #007BFF; }
.put { background-color: #FFC107; }
.patch { background-color: #9C27B0; }
.delete { background-color: #F44336; }
table { border-collapse: collapse; width: 100%; margin-bottom: 20px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; vertical-align: top; }
th { background-color: #f2f2f2; }
pre { background: #f4f4f4; padding: 10px; border-radius: 5px; overflow-x: auto; margin: 0; }
</style>
</head>
<body>
<div class="container">
<h1>{{range .Methods}}<span class="badge {{.}}">{{.}}</span>{{end}} {{.Path}}</h1>
<p>{{.Summary}}</p>
{{if .Parameters}}
<h2>Parameters</h2>
<table>
<tr><th>Name</th><th>In</th><th>Required</th><th>Description</th><th>Schema</th></tr>
{{range .Parameters}}
<tr><td>{{.Name}}</td><td>{{.In}}</td><td>{{if .Required}}yes{{else}}no{{end}}</td><td>{{.Description}}</td><td><pre>{{.Schema}}</pre></td></tr>
{{end}}
</table>
{{end}}
{{if .RequestBody}}
<h2>Request Body</h2>
<pre>{{.RequestBody}}</pre>
{{end}}
<h2>Responses</h2>
<table>
<tr><th>Status</th><th>Description</th><th>Schema</th></tr>
{{range .Responses}}
<tr><td>{{.Status}}</td><td>{{.Description}}</td><td>{{if .Schema}}<pre>{{.Schema}}</pre>{{end}}</td></tr>
{{end}}
</table>
</div>
</body>
</html>
`))

// renderHTML renders a static documentation page for one route from
// its operation spec. It is a pure function of the spec.
func renderHTML(spec *OperationSpec) (string, error) {
	doc := htmlDoc{
		Path:    spec.Path,
		Summary: spec.Spec.Summary,
	}
	for _, m := range spec.Methods {
		doc.Methods = append(doc.Methods, strings.ToLower(m))
	}

	for _, ref := range spec.Spec.Parameters {
		if ref == nil || ref.Value == nil {
			continue
		}

		doc.Parameters = append(doc.Parameters, htmlParam{
			Name:        ref.Value.Name,
			In:          ref.Value.In,
			Description: ref.Value.Description,
			Required:    ref.Value.Required,
			Schema:      marshalIndented(ref.Value.Schema),
		})
	}

	if body := spec.Spec.RequestBody; body != nil && body.Value != nil {
		if media := body.Value.Content.Get("application/json"); media != nil {
			doc.RequestBody = marshalIndented(media.Schema)
		}
	}

	if spec.Spec.Responses != nil {
		statuses := make([]string, 0, spec.Spec.Responses.Len())
		for status := range spec.Spec.Responses.Map() {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)

		for _, status := range statuses {
			ref := spec.Spec.Responses.Value(status)
			if ref == nil || ref.Value == nil {
				continue
			}

			resp := htmlResponse{Status: status}
			if ref.Value.Description != nil {
				resp.Description = *ref.Value.Description
			}
			if media := ref.Value.Content.Get("application/json"); media != nil {
				resp.Schema = marshalIndented(media.Schema)
			}
			doc.Responses = append(doc.Responses, resp)
		}
	}

	var sb strings.Builder
	if err := docPage.Execute(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func marshalIndented(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(raw)
}
