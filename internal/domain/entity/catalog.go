package entity

import (
	"fmt"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

// CatalogKind recurso de catálogo expuesto por la API remota.
type CatalogKind string

const (
	CatalogProductos   CatalogKind = "productos"
	CatalogLocaciones  CatalogKind = "locaciones"
	CatalogPersonas    CatalogKind = "personas"
	CatalogProveedores CatalogKind = "proveedores"
	CatalogUnidades    CatalogKind = "unidades"
)

// CatalogKinds todos los catálogos conocidos.
var CatalogKinds = []CatalogKind{
	CatalogProductos, CatalogLocaciones, CatalogPersonas, CatalogProveedores, CatalogUnidades,
}

// ParseCatalogKind valida el nombre de un catálogo.
func ParseCatalogKind(s string) (CatalogKind, error) {
	for _, k := range CatalogKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: catálogo %q", domain.ErrNotFound, s)
}

// CatalogItem elemento genérico de catálogo ({id, nombre, ...}).
// Unidad solo viene informado en productos.
type CatalogItem struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Unidad string `json:"unidad,omitempty"`
}
