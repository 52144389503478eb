package backend

import (
	"strings"

	"github.com/inventario-agricola/inventario/internal/inventory"
)

// Endpoints holds the collection URLs. It is built once at startup from configuration.
type Endpoints struct {
	SeedsURL     string
	SuppliersURL string
}

// EndpointsFromBase derives both collection URLs from a common API root.
func EndpointsFromBase(base string) Endpoints {
	base = strings.TrimRight(base, "/")
	return Endpoints{
		SeedsURL:     base + "/" + string(inventory.ResourceSeeds),
		SuppliersURL: base + "/" + string(inventory.ResourceSuppliers),
	}
}

// Directory groups the clients of every collection.
type Directory struct {
	Seeds     *Client
	Suppliers *Client
}

// NewDirectory builds one client per collection sharing the same options.
func NewDirectory(endpoints Endpoints, opts ...Option) *Directory {
	return &Directory{
		Seeds:     NewClient(inventory.ResourceSeeds, endpoints.SeedsURL, opts...),
		Suppliers: NewClient(inventory.ResourceSuppliers, endpoints.SuppliersURL, opts...),
	}
}
