package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
)

// Confirmation mensaje de confirmación con los ids ya traducidos a nombres.
type Confirmation struct {
	MovementID int64  `json:"movimiento_id"`
	Message    string `json:"message"`
	Producto   string `json:"producto"`
	Origen     string `json:"origen,omitempty"`
	Destino    string `json:"destino,omitempty"`
	Persona    string `json:"persona,omitempty"`
	Proveedor  string `json:"proveedor,omitempty"`
}

// ConfirmationBuilder traduce el movimiento creado a un mensaje para el usuario.
type ConfirmationBuilder struct {
	catalogs CatalogReader
}

// NewConfirmationBuilder catalogs puede ser nil: se muestran los ids.
func NewConfirmationBuilder(catalogs CatalogReader) *ConfirmationBuilder {
	return &ConfirmationBuilder{catalogs: catalogs}
}

// Build arma la confirmación, p. ej. "Uso registrado: 5,25 kg de Harina desde Bodega central."
func (b *ConfirmationBuilder) Build(m entity.CreatedMovement) Confirmation {
	c := Confirmation{MovementID: m.ID}

	producto, unidad := b.product(m.ProductoID)
	c.Producto = producto
	c.Origen = b.name(entity.CatalogLocaciones, m.FromLocacionID)
	c.Destino = b.name(entity.CatalogLocaciones, m.ToLocacionID)
	c.Persona = b.name(entity.CatalogPersonas, m.PersonaID)
	c.Proveedor = b.name(entity.CatalogProveedores, m.ProveedorID)

	var sb strings.Builder
	sb.WriteString(m.Tipo.Label())
	sb.WriteString(" registrado: ")
	sb.WriteString(inventory.FormatQuantity(m.Cantidad))
	if unidad != "" {
		sb.WriteString(" " + unidad)
	}
	sb.WriteString(" de " + producto)
	if c.Origen != "" {
		sb.WriteString(" desde " + c.Origen)
	}
	if c.Destino != "" {
		sb.WriteString(" hacia " + c.Destino)
	}
	if c.Proveedor != "" {
		sb.WriteString(" (proveedor: " + c.Proveedor + ")")
	}
	if c.Persona != "" {
		sb.WriteString(" (responsable: " + c.Persona + ")")
	}
	sb.WriteString(".")
	c.Message = sb.String()
	return c
}

func (b *ConfirmationBuilder) product(id int64) (string, string) {
	if b.catalogs != nil {
		if item, ok := b.catalogs.Lookup(entity.CatalogProductos, id); ok {
			return item.Nombre, item.Unidad
		}
	}
	return fmt.Sprintf("#%d", id), ""
}

func (b *ConfirmationBuilder) name(kind entity.CatalogKind, id *int64) string {
	if id == nil {
		return ""
	}
	if b.catalogs != nil {
		if item, ok := b.catalogs.Lookup(kind, *id); ok {
			return item.Nombre
		}
	}
	return fmt.Sprintf("#%d", *id)
}
