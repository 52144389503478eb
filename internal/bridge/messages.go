package bridge

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the Spanish source text.
const (
	msgSeedCodeRequired        = "El código es obligatorio"
	msgSeedCodeMissing         = "Debe ingresar el código"
	msgSeedRouteCodeMissing    = "Debe ingresar el código de la ruta"
	msgSupplierNITRequired     = "El NIT es obligatorio"
	msgSupplierNITMissing      = "Debe ingresar el NIT"
	msgSupplierRouteNITMissing = "Debe ingresar el NIT de la ruta"

	msgToastSuccess = "Operación exitosa"
	msgToastDeleted = "Eliminado"
	msgToastError   = "Ocurrió un error"

	msgAbout = "Use el menú para gestionar semillas y proveedores. Cada solicitud va directo al servicio de inventario y su respuesta se muestra sin procesar bajo cada formulario."
)

// Console page texts.
const (
	TextAppTitle  = "Inventario Agrícola"
	TextHome      = "Inicio"
	TextAbout     = "Acerca de"
	TextAboutLede = msgAbout
)

var supportedLanguages = []language.Tag{language.Spanish, language.English}

var english = map[string]string{
	msgSeedCodeRequired:        "The code is required",
	msgSeedCodeMissing:         "Enter the code",
	msgSeedRouteCodeMissing:    "Enter the code used in the path",
	msgSupplierNITRequired:     "The tax ID is required",
	msgSupplierNITMissing:      "Enter the tax ID",
	msgSupplierRouteNITMissing: "Enter the tax ID used in the path",
	msgToastSuccess:            "Operation succeeded",
	msgToastDeleted:            "Deleted",
	msgToastError:              "An error occurred",

	"Inventario Agrícola":              "Agricultural Inventory",
	"Inicio":                           "Home",
	"Acerca de":                        "About",
	msgAbout:                           "Use the menu to manage seeds and suppliers. Every request goes straight to the inventory service and its raw reply is shown under each form.",
	"Semillas":                         "Seeds",
	"Proveedores":                      "Suppliers",
	"Crear semilla":                    "Create seed",
	"Buscar semilla":                   "Find seed",
	"Actualizar semilla":               "Update seed",
	"Eliminar semilla":                 "Delete seed",
	"Listar semillas":                  "List seeds",
	"Crear proveedor":                  "Create supplier",
	"Buscar proveedor":                 "Find supplier",
	"Actualizar proveedor":             "Update supplier",
	"Eliminar proveedor":               "Delete supplier",
	"Listar proveedores":               "List suppliers",
	"Semillas recientes del proveedor": "Latest seeds of supplier",
	"Crear":                            "Create",
	"Buscar":                           "Find",
	"Actualizar":                       "Update",
	"Eliminar":                         "Delete",
	"Listar":                           "List",
	"Código":                           "Code",
	"Código (ruta)":                    "Code (path)",
	"Nombre":                           "Name",
	"Precio":                           "Price",
	"Stock":                            "Stock",
	"Tipo de semilla":                  "Seed type",
	"Porcentaje de germinación":        "Germination percentage",
	"NIT del proveedor":                "Supplier tax ID",
	"Fecha de ingreso":                 "Intake date",
	"NIT":                              "Tax ID",
	"NIT (ruta)":                       "Tax ID (path)",
	"Ciudad":                           "City",
	"Teléfono":                         "Phone",
	"Fecha de registro":                "Registration date",
	"Activo":                           "Active",
	"Tipo":                             "Type",
	"Germinación mínima":               "Minimum germination",
	"Desde":                            "From",
	"Hasta":                            "To",
	"Solo activos":                     "Active only",
}

var catalogue = newCatalogue()

func newCatalogue() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for key, text := range english {
		_ = b.SetString(language.Spanish, key, key)
		_ = b.SetString(language.English, key, text)
	}
	return b
}

// Translator resolves message keys for one language.
type Translator struct {
	printer *message.Printer
}

// NewTranslator picks the closest supported language for lang, Spanish by default.
func NewTranslator(lang string) Translator {
	tag := language.Spanish
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, _ := language.NewMatcher(supportedLanguages).Match(parsed)
		tag = supportedLanguages[idx]
	}
	return Translator{printer: message.NewPrinter(tag, message.Catalog(catalogue))}
}

// T returns the translation of key, or key itself when none is registered.
func (t Translator) T(key string) string {
	if t.printer == nil {
		return key
	}
	return t.printer.Sprintf(message.Key(key, key))
}
