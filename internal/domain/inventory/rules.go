package inventory

import (
	"fmt"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// MovementRules restricciones de ubicación que impone un tipo de movimiento.
type MovementRules struct {
	AllowFrom            bool `json:"allowFrom"`
	AllowTo              bool `json:"allowTo"`
	RequiresFrom         bool `json:"requiresFrom"`
	RequiresTo           bool `json:"requiresTo"`
	RequiresAnyLocation  bool `json:"requiresAnyLocation"`
	RequiresBothDistinct bool `json:"requiresBothDistinct"`
	ForbidFrom           bool `json:"forbidFrom"`
	ForbidTo             bool `json:"forbidTo"`
}

// Tabla exhaustiva por tipo. Ingreso: destino forzado a la bodega central.
// Uso: origen forzado a la bodega central, destino opcional distinto de la central.
var movementRules = map[entity.MovementType]MovementRules{
	entity.MovementTypeIngreso: {
		AllowTo:    true,
		RequiresTo: true,
		ForbidFrom: true,
	},
	entity.MovementTypeUso: {
		AllowFrom:    true,
		AllowTo:      true,
		RequiresFrom: true,
	},
	entity.MovementTypeTraspaso: {
		AllowFrom:            true,
		AllowTo:              true,
		RequiresFrom:         true,
		RequiresTo:           true,
		RequiresBothDistinct: true,
	},
	entity.MovementTypeAjuste: {
		AllowFrom:           true,
		AllowTo:             true,
		RequiresAnyLocation: true,
	},
}

// ResolveRules devuelve las restricciones del tipo. Un tipo fuera de la variante es un error,
// nunca se asumen las reglas de otro tipo.
func ResolveRules(t entity.MovementType) (MovementRules, error) {
	r, ok := movementRules[t]
	if !ok {
		return MovementRules{}, fmt.Errorf("%w: %q", domain.ErrUnknownMovementType, string(t))
	}
	return r, nil
}

// EffectiveStockLocation ubicación contra la que se consulta el stock:
// la central en ingresos; en otro caso el origen, o la central si no hay origen.
func EffectiveStockLocation(t entity.MovementType, fromLocationID *int64, centralID int64) int64 {
	if t == entity.MovementTypeIngreso || fromLocationID == nil {
		return centralID
	}
	return *fromLocationID
}

// ApplyForcedLocations fija las ubicaciones que el tipo no deja elegir.
// Devuelve una copia; tipos desconocidos se dejan intactos para que el validador los reporte.
func ApplyForcedLocations(form entity.MovementForm, centralID int64) entity.MovementForm {
	out := form.Clone()
	switch out.Tipo {
	case entity.MovementTypeIngreso:
		out.FromLocationID = nil
		out.ToLocationID = entity.Int64Ptr(centralID)
	case entity.MovementTypeUso:
		out.FromLocationID = entity.Int64Ptr(centralID)
	}
	return out
}
