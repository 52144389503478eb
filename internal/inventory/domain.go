// Package inventory describes the records exchanged with the Inventario Agrícola backend.
package inventory

// Resource names a backend collection as it appears in the URL path.
type Resource string

const (
	// ResourceSeeds is the seeds collection.
	ResourceSeeds Resource = "semillas"
	// ResourceSuppliers is the suppliers collection.
	ResourceSuppliers Resource = "proveedores"
)

// Seed mirrors the backend seed payload.
type Seed struct {
	Code          string   `json:"codigo"`
	Name          string   `json:"nombre"`
	Price         *float64 `json:"precio"`
	Stock         *int64   `json:"stock"`
	SeedType      string   `json:"tipoSemilla"`
	Germination   *float64 `json:"porcentajeGerminacion"`
	SupplierTaxID string   `json:"proveedorNit"`
	IntakeAt      string   `json:"fechaIngreso"`
}

// Supplier mirrors the backend supplier payload.
type Supplier struct {
	TaxID        string `json:"nit"`
	Name         string `json:"nombre"`
	City         string `json:"ciudad"`
	Phone        string `json:"telefono"`
	RegisteredAt string `json:"fechaRegistro"`
	Active       bool   `json:"activo"`
}

// SupplierSeeds is the reply of the supplier top seeds endpoint.
type SupplierSeeds struct {
	Supplier Supplier `json:"proveedor"`
	Seeds    []Seed   `json:"semillas"`
}
