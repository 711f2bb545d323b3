// Package web embeds the HTML templates served by the dashboard.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
)

//go:embed templates/*.html
var FS embed.FS

// Templates parses the embedded template set with the helpers the pages use.
func Templates() *template.Template {
	funcs := template.FuncMap{
		// json marshals chart payloads into inline <script> data.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(FS, "templates/*.html"))
}
