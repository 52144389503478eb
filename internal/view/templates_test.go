package view

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

type testField struct {
	Name     string
	Label    string
	Kind     string
	Required bool
}

type testForm struct {
	ID     string
	Title  string
	Action string
	Fields []testField
}

type testGroup struct {
	ID       string
	Title    string
	Endpoint string
	Forms    []testForm
}

func TestRenderConsolePage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/console.html", TemplateData{
		Title:     "Inventario Agrícola",
		Lang:      "es",
		CSRFToken: "tok",
		Data: map[string]any{
			"HomeLabel":  "Inicio",
			"AboutTitle": "Acerca de",
			"AboutText":  "texto",
			"Toasts":     true,
			"Groups": []testGroup{{
				ID:       "semillas",
				Title:    "Semillas",
				Endpoint: "http://localhost:8080/api/v1/semillas",
				Forms: []testForm{{
					ID:     "seed-create",
					Title:  "Crear semilla",
					Action: "Crear",
					Fields: []testField{
						{Name: "codigo", Label: "Código", Kind: "text", Required: true},
						{Name: "precio", Label: "Precio", Kind: "number"},
						{Name: "fechaIngreso", Label: "Fecha de ingreso", Kind: "datetime"},
						{Name: "activo", Label: "Activo", Kind: "checkbox"},
					},
				}},
			}},
		},
	})
	require.NoError(t, err)
	body := rr.Body.String()
	require.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	for _, want := range []string{
		`<meta name="csrf-token" content="tok">`,
		`data-section="semillas"`,
		`data-form="seed-create"`,
		`type="number" name="precio" step="any"`,
		`type="datetime-local" name="fechaIngreso"`,
		`type="checkbox" name="activo"`,
		`data-output="seed-create"`,
		`data-enabled="true"`,
	} {
		require.True(t, strings.Contains(body, want), "missing %s in %s", want, body)
	}
}

func TestInputTypes(t *testing.T) {
	require.Equal(t, "number", inputType("integer"))
	require.Equal(t, "1", stepOf("integer"))
	require.Equal(t, "text", inputType("text"))
	require.Equal(t, "", stepOf("datetime"))
}

func TestRenderFailureWritesNothing(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/console.html", TemplateData{Title: "Inventario", Lang: "es", Data: 42})
	require.Error(t, err)
	require.False(t, rr.Flushed)
	require.Zero(t, rr.Body.Len())
	require.Empty(t, rr.Header().Get("Content-Type"))
}
