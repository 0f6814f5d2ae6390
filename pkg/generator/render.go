package generator

import (
	"bytes"
	"embed"
	"encoding/json"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "unpublished"
		}
		return t.UTC().Format("2006-01-02")
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

const (
	contentTypeMarkdown = "text/markdown; charset=utf-8"
	contentTypeJSON     = "application/json"
	contentTypeSVG      = "image/svg+xml"
)

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, goerr.Wrap(err, "failed to render template", goerr.V("template", name))
	}
	return buf.Bytes(), nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode JSON")
	}
	return append(data, '\n'), nil
}
