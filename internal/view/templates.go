package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/inventario-agricola/inventario/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title     string
	Lang      string
	CSRFToken string
	Data      any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"inputType": inputType,
		"stepOf":    stepOf,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData. Nothing is written to w
// when execution fails.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// inputType maps a field kind to the HTML input type.
func inputType(kind any) string {
	switch fmt.Sprint(kind) {
	case "number", "integer":
		return "number"
	case "datetime":
		return "datetime-local"
	case "checkbox":
		return "checkbox"
	}
	return "text"
}

func stepOf(kind any) string {
	switch fmt.Sprint(kind) {
	case "number":
		return "any"
	case "integer":
		return "1"
	}
	return ""
}
