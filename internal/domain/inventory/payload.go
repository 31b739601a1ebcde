package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// PayloadBuilder transforma un formulario validado en el payload canónico.
type PayloadBuilder struct {
	centralID int64
}

// NewPayloadBuilder construye el builder para la bodega central indicada.
func NewPayloadBuilder(centralID int64) *PayloadBuilder {
	return &PayloadBuilder{centralID: centralID}
}

// Build no valida reglas de negocio (eso es del FormValidator); solo exige lo mínimo para
// poder construir el payload y fuerza las ubicaciones que dependen del tipo.
func (b *PayloadBuilder) Build(form entity.MovementForm, quantity decimal.Decimal) (entity.MovementPayload, error) {
	if _, err := ResolveRules(form.Tipo); err != nil {
		return entity.MovementPayload{}, err
	}
	if form.ProductoID == nil {
		return entity.MovementPayload{}, fmt.Errorf("%w: producto requerido", domain.ErrInvalidInput)
	}

	p := entity.MovementPayload{
		Tipo:        form.Tipo,
		ProductoID:  *form.ProductoID,
		Cantidad:    CanonicalQuantity(quantity),
		PersonaID:   copyID(form.PersonaID),
		ProveedorID: copyID(form.ProveedorID),
	}
	if nota := strings.TrimSpace(form.Nota); nota != "" {
		p.Nota = &nota
	}

	switch form.Tipo {
	case entity.MovementTypeIngreso:
		p.FromLocacionID = nil
		p.ToLocacionID = entity.Int64Ptr(b.centralID)
	case entity.MovementTypeUso:
		p.FromLocacionID = entity.Int64Ptr(b.centralID)
		if form.ToLocationID != nil {
			p.ToLocacionID = copyID(form.ToLocationID)
		} else {
			p.OmitToLocacion = true
		}
	default:
		p.FromLocacionID = copyID(form.FromLocationID)
		p.ToLocacionID = copyID(form.ToLocationID)
	}
	return p, nil
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	return entity.Int64Ptr(*p)
}
