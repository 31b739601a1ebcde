package inventory

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
)

// PreviewResult resultado de validar un formulario sin sesión ni envío.
type PreviewResult struct {
	Errors  entity.FormErrors
	Stock   entity.StockSnapshot
	Payload *entity.MovementPayload
}

// PreviewUseCase valida un formulario suelto y, si es válido, devuelve el payload que se enviaría.
// Para uso consulta el stock de la bodega central de forma síncrona.
type PreviewUseCase struct {
	centralID int64
	validator *inventory.FormValidator
	builder   *inventory.PayloadBuilder
	stock     StockLookup
}

// NewPreviewUseCase construye el caso de uso.
func NewPreviewUseCase(centralID int64, stock StockLookup) *PreviewUseCase {
	return &PreviewUseCase{
		centralID: centralID,
		validator: inventory.NewFormValidator(centralID),
		builder:   inventory.NewPayloadBuilder(centralID),
		stock:     stock,
	}
}

// Preview no modifica nada en la API remota.
func (uc *PreviewUseCase) Preview(ctx context.Context, form entity.MovementForm) PreviewResult {
	res := uc.validator.Validate(form)
	out := PreviewResult{Errors: res.Errors, Stock: entity.IdleSnapshot()}
	if !res.IsValid {
		return out
	}

	if form.Tipo == entity.MovementTypeUso {
		out.Stock = uc.lookup(ctx, *form.ProductoID, inventory.EffectiveStockLocation(form.Tipo, form.FromLocationID, uc.centralID))
		out.Errors = out.Errors.Merge(inventory.CheckStock(form.Tipo, out.Stock, *res.Quantity))
		if !out.Errors.Empty() {
			return out
		}
	}

	payload, err := uc.builder.Build(form, *res.Quantity)
	if err != nil {
		out.Errors.Form = err.Error()
		return out
	}
	out.Payload = &payload
	return out
}

func (uc *PreviewUseCase) lookup(ctx context.Context, productoID, locationID int64) entity.StockSnapshot {
	raw, err := uc.stock.GetStock(ctx, productoID, locationID)
	if err != nil {
		return entity.StockSnapshot{
			Status:     entity.StockStatusError,
			ProductoID: productoID,
			LocationID: locationID,
			Error:      stockErrorMessage(err),
		}
	}
	return entity.ReadySnapshot(productoID, locationID, inventory.ParseStockValue(raw))
}
