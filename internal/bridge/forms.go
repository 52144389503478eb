package bridge

import (
	"strings"

	"github.com/inventario-agricola/inventario/internal/inventory"
)

// FormID names one form operation.
type FormID string

const (
	FormSeedCreate     FormID = "seed-create"
	FormSeedGet        FormID = "seed-get"
	FormSeedUpdate     FormID = "seed-update"
	FormSeedDelete     FormID = "seed-delete"
	FormSeedList       FormID = "seed-list"
	FormSupplierCreate FormID = "supplier-create"
	FormSupplierGet    FormID = "supplier-get"
	FormSupplierUpdate FormID = "supplier-update"
	FormSupplierDelete FormID = "supplier-delete"
	FormSupplierList   FormID = "supplier-list"
	FormSupplierTop    FormID = "supplier-top2"
)

// FieldKind selects the input control and the coercion applied to a field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldInteger  FieldKind = "integer"
	FieldDateTime FieldKind = "datetime"
	FieldCheckbox FieldKind = "checkbox"
)

// Field describes one input of a form.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required,omitempty"`
}

// Form describes one operation and its inputs.
type Form struct {
	ID       FormID             `json:"id"`
	Resource inventory.Resource `json:"resource"`
	Title    string             `json:"title"`
	Action   string             `json:"action"`
	Fields   []Field            `json:"fields"`

	missing string
}

// Operation returns the part of the identifier after the resource prefix, e.g. "create".
func (f Form) Operation() string {
	if _, op, ok := strings.Cut(string(f.ID), "-"); ok {
		return op
	}
	return string(f.ID)
}

func (f Form) translated(t Translator) Form {
	out := f
	out.Title = t.T(f.Title)
	out.Action = t.T(f.Action)
	out.Fields = make([]Field, len(f.Fields))
	for i, field := range f.Fields {
		field.Label = t.T(field.Label)
		out.Fields[i] = field
	}
	return out
}

func seedFields(codeLabel string) []Field {
	return []Field{
		{Name: "codigo", Label: codeLabel, Kind: FieldText, Required: true},
		{Name: "nombre", Label: "Nombre", Kind: FieldText},
		{Name: "precio", Label: "Precio", Kind: FieldNumber},
		{Name: "stock", Label: "Stock", Kind: FieldInteger},
		{Name: "tipoSemilla", Label: "Tipo de semilla", Kind: FieldText},
		{Name: "porcentajeGerminacion", Label: "Porcentaje de germinación", Kind: FieldNumber},
		{Name: "proveedorNit", Label: "NIT del proveedor", Kind: FieldText},
		{Name: "fechaIngreso", Label: "Fecha de ingreso", Kind: FieldDateTime},
	}
}

func supplierFields(nitLabel string) []Field {
	return []Field{
		{Name: "nit", Label: nitLabel, Kind: FieldText, Required: true},
		{Name: "nombre", Label: "Nombre", Kind: FieldText},
		{Name: "ciudad", Label: "Ciudad", Kind: FieldText},
		{Name: "telefono", Label: "Teléfono", Kind: FieldText},
		{Name: "fechaRegistro", Label: "Fecha de registro", Kind: FieldDateTime},
		{Name: "activo", Label: "Activo", Kind: FieldCheckbox},
	}
}

var (
	seedCode    = Field{Name: "codigo", Label: "Código", Kind: FieldText, Required: true}
	supplierNIT = Field{Name: "nit", Label: "NIT", Kind: FieldText, Required: true}
)

// formCatalog lists every form in page order.
var formCatalog = []Form{
	{ID: FormSeedCreate, Resource: inventory.ResourceSeeds, Title: "Crear semilla", Action: "Crear", Fields: seedFields("Código"), missing: msgSeedCodeRequired},
	{ID: FormSeedGet, Resource: inventory.ResourceSeeds, Title: "Buscar semilla", Action: "Buscar", Fields: []Field{seedCode}, missing: msgSeedCodeMissing},
	{ID: FormSeedUpdate, Resource: inventory.ResourceSeeds, Title: "Actualizar semilla", Action: "Actualizar", Fields: seedFields("Código (ruta)"), missing: msgSeedRouteCodeMissing},
	{ID: FormSeedDelete, Resource: inventory.ResourceSeeds, Title: "Eliminar semilla", Action: "Eliminar", Fields: []Field{seedCode}, missing: msgSeedCodeMissing},
	{ID: FormSeedList, Resource: inventory.ResourceSeeds, Title: "Listar semillas", Action: "Listar", Fields: []Field{
		{Name: "tipo", Label: "Tipo", Kind: FieldText},
		{Name: "germinacionMin", Label: "Germinación mínima", Kind: FieldNumber},
		{Name: "desde", Label: "Desde", Kind: FieldDateTime},
		{Name: "hasta", Label: "Hasta", Kind: FieldDateTime},
	}},
	{ID: FormSupplierCreate, Resource: inventory.ResourceSuppliers, Title: "Crear proveedor", Action: "Crear", Fields: supplierFields("NIT"), missing: msgSupplierNITRequired},
	{ID: FormSupplierGet, Resource: inventory.ResourceSuppliers, Title: "Buscar proveedor", Action: "Buscar", Fields: []Field{supplierNIT}, missing: msgSupplierNITMissing},
	{ID: FormSupplierUpdate, Resource: inventory.ResourceSuppliers, Title: "Actualizar proveedor", Action: "Actualizar", Fields: supplierFields("NIT (ruta)"), missing: msgSupplierRouteNITMissing},
	{ID: FormSupplierDelete, Resource: inventory.ResourceSuppliers, Title: "Eliminar proveedor", Action: "Eliminar", Fields: []Field{supplierNIT}, missing: msgSupplierNITMissing},
	{ID: FormSupplierList, Resource: inventory.ResourceSuppliers, Title: "Listar proveedores", Action: "Listar", Fields: []Field{
		{Name: "nombre", Label: "Nombre", Kind: FieldText},
		{Name: "ciudad", Label: "Ciudad", Kind: FieldText},
		{Name: "activo", Label: "Solo activos", Kind: FieldCheckbox},
	}},
	{ID: FormSupplierTop, Resource: inventory.ResourceSuppliers, Title: "Semillas recientes del proveedor", Action: "Buscar", Fields: []Field{supplierNIT}, missing: msgSupplierNITMissing},
}

// Catalog returns every known form in page order, untranslated.
func Catalog() []Form {
	out := make([]Form, len(formCatalog))
	copy(out, formCatalog)
	return out
}

// GroupTitle returns the section title of a resource.
func GroupTitle(r inventory.Resource) string {
	switch r {
	case inventory.ResourceSeeds:
		return "Semillas"
	case inventory.ResourceSuppliers:
		return "Proveedores"
	}
	return string(r)
}
