package inventory

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// StockLookup consulta el stock actual de un producto en una ubicación.
// Debe respetar la cancelación de ctx. El valor puede venir como número o como texto con formato local.
type StockLookup interface {
	GetStock(ctx context.Context, productoID, locationID int64) (json.RawMessage, error)
}

// MovementSubmitter crea el movimiento en la API remota. Los fallos remotos se devuelven como *domain.APIError.
type MovementSubmitter interface {
	CreateMovement(ctx context.Context, payload entity.MovementPayload) (*entity.CreatedMovement, error)
}

// CatalogReader lectura de catálogos ya resueltos (para traducir ids a nombres).
type CatalogReader interface {
	Lookup(kind entity.CatalogKind, id int64) (entity.CatalogItem, bool)
}
