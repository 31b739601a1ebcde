package inventory

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// ValidationResult resultado de validar un formulario.
// Quantity lleva la cantidad parseada aunque haya errores, si el texto era numérico.
type ValidationResult struct {
	IsValid  bool
	Errors   entity.FormErrors
	Quantity *decimal.Decimal
}

// FormValidator valida un formulario contra las reglas del tipo y la bodega central.
// Es puro: no lee nada fuera de su argumento.
type FormValidator struct {
	centralID int64
}

// NewFormValidator construye el validador para la bodega central indicada.
func NewFormValidator(centralID int64) *FormValidator {
	return &FormValidator{centralID: centralID}
}

// Validate acumula todos los errores del formulario (no se detiene en el primero).
func (v *FormValidator) Validate(form entity.MovementForm) ValidationResult {
	var errs entity.FormErrors

	if form.Tipo == "" {
		errs.Set(entity.FieldTipo, MsgTipoRequired)
	}
	if form.ProductoID == nil {
		errs.Set(entity.FieldProductoID, MsgProductoRequired)
	}

	qty, qerr := ParseQuantity(form.Quantity)
	if qerr != nil {
		errs.Set(entity.FieldQuantity, quantityMessage(qerr))
	}

	if form.ProductoID != nil && !form.ConfirmUnit {
		errs.Set(entity.FieldConfirmUnit, MsgConfirmUnit)
	}

	if form.Tipo != "" {
		rules, err := ResolveRules(form.Tipo)
		if err != nil {
			errs.Set(entity.FieldTipo, MsgTipoUnknown)
		} else {
			applyLocationRules(&errs, rules, form)
			v.applyTypeOverrides(&errs, form)
		}
	}

	return ValidationResult{
		IsValid:  errs.Empty(),
		Errors:   errs,
		Quantity: qty,
	}
}

func applyLocationRules(errs *entity.FormErrors, rules MovementRules, form entity.MovementForm) {
	from, to := form.FromLocationID, form.ToLocationID

	if from != nil && (rules.ForbidFrom || !rules.AllowFrom) {
		errs.Set(entity.FieldFromLocationID, MsgFromForbidden)
	}
	if to != nil && (rules.ForbidTo || !rules.AllowTo) {
		errs.Set(entity.FieldToLocationID, MsgToForbidden)
	}
	if rules.RequiresFrom && from == nil {
		errs.Set(entity.FieldFromLocationID, MsgFromRequired)
	}
	if rules.RequiresTo && to == nil {
		errs.Set(entity.FieldToLocationID, MsgToRequired)
	}
	if rules.RequiresAnyLocation && from == nil && to == nil {
		errs.Set(entity.FieldFromLocationID, MsgAnyLocation)
		errs.Set(entity.FieldToLocationID, MsgAnyLocation)
	}
	if rules.RequiresBothDistinct && from != nil && to != nil && *from == *to {
		errs.Set(entity.FieldToLocationID, MsgDistinctLocations)
	}
}

// applyTypeOverrides reemplaza los mensajes genéricos por otros específicos de ingreso y uso.
func (v *FormValidator) applyTypeOverrides(errs *entity.FormErrors, form entity.MovementForm) {
	from, to := form.FromLocationID, form.ToLocationID
	switch form.Tipo {
	case entity.MovementTypeIngreso:
		if to == nil || *to != v.centralID {
			errs.Set(entity.FieldToLocationID, MsgIngresoToCentral)
		}
		if from != nil && *from != v.centralID {
			errs.Set(entity.FieldFromLocationID, MsgIngresoFromCentral)
		}
	case entity.MovementTypeUso:
		if from == nil || *from != v.centralID {
			errs.Set(entity.FieldFromLocationID, MsgUsoFromCentral)
		}
		if to != nil && *to == v.centralID {
			errs.Set(entity.FieldToLocationID, MsgUsoToNotCentral)
		}
	}
}

func quantityMessage(err error) string {
	switch {
	case errors.Is(err, errQuantityEmpty):
		return MsgQuantityRequired
	case errors.Is(err, errQuantityNotPos):
		return MsgQuantityNotPos
	case errors.Is(err, errQuantityPrecision):
		return MsgQuantityPrecision
	default:
		return MsgQuantityNotNumber
	}
}
