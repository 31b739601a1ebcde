package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// CheckStock verifica la suficiencia de stock; solo aplica a usos.
// El snapshot puede estar desactualizado respecto de otras sesiones; la API remota sigue siendo la autoridad.
func CheckStock(t entity.MovementType, snapshot entity.StockSnapshot, quantity decimal.Decimal) entity.FormErrors {
	var errs entity.FormErrors
	if t != entity.MovementTypeUso {
		return errs
	}
	if !snapshot.Known() {
		errs.Form = MsgStockUnverifiable
		return errs
	}
	available := *snapshot.Value
	switch {
	case available.LessThanOrEqual(decimal.NewFromInt(1)):
		errs.Set(entity.FieldQuantity, MsgStockDepleted)
	case quantity.GreaterThan(available):
		errs.Set(entity.FieldQuantity, MsgStockExceeded(quantity, available))
	}
	return errs
}
