// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/inventario/internal/core/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"precio": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"fecha":  func(t time.Time) string { return t.Format(schema.DateLayout) },
}

// Templates parses every page. Pages are addressed by their define name,
// e.g. "productos/lista".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
