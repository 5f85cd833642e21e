package server

import (
	"bytes"
	"fmt"
	"net/url"
	"text/template"

	"github.com/woozymasta/travelglobe/assets"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
)

// PageData fills the viewer page template.
type PageData struct {
	Title   string
	CSS     string
	JS      string
	Favicon string
	Views   []string
	Width   int
	Height  int
	Visitor bool
}

// NewMinifier returns a minifier for every asset type the server emits.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFunc("application/json", json.Minify)
	return m
}

// BuildIndex renders and minifies the viewer page from the embedded assets.
// Title, Views, size and Visitor come from data; the asset fields are filled here.
func BuildIndex(m *minify.M, data PageData) ([]byte, error) {
	var err error

	if data.CSS, err = m.String("text/css", assets.Style); err != nil {
		return nil, fmt.Errorf("minify css: %w", err)
	}
	if data.JS, err = m.String("text/javascript", assets.Script); err != nil {
		return nil, fmt.Errorf("minify js: %w", err)
	}

	icon, err := m.String("image/svg+xml", assets.Favicon)
	if err != nil {
		return nil, fmt.Errorf("minify svg: %w", err)
	}
	data.Favicon = url.PathEscape(icon)

	tmpl, err := template.New("index").Parse(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify html: %w", err)
	}
	return out, nil
}
