package inventory

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Mensajes de validación mostrados junto a cada campo.
const (
	MsgTipoRequired       = "Selecciona el tipo de movimiento."
	MsgTipoUnknown        = "El tipo de movimiento no es válido."
	MsgProductoRequired   = "Selecciona un producto."
	MsgQuantityRequired   = "Ingresa la cantidad."
	MsgQuantityNotNumber  = "La cantidad debe ser un número válido."
	MsgQuantityNotPos     = "La cantidad debe ser mayor que 0."
	MsgQuantityPrecision  = "La cantidad admite como máximo 3 decimales."
	MsgConfirmUnit        = "Confirma la unidad de medida del producto."
	MsgFromForbidden      = "Este tipo de movimiento no admite ubicación de origen."
	MsgToForbidden        = "Este tipo de movimiento no admite ubicación de destino."
	MsgFromRequired       = "Selecciona la ubicación de origen."
	MsgToRequired         = "Selecciona la ubicación de destino."
	MsgAnyLocation        = "Selecciona al menos una ubicación (origen o destino)."
	MsgDistinctLocations  = "El destino debe ser distinto del origen."
	MsgIngresoToCentral   = "Los ingresos siempre entran a la bodega central."
	MsgIngresoFromCentral = "Los ingresos no tienen ubicación de origen."
	MsgUsoFromCentral     = "Los usos siempre salen de la bodega central."
	MsgUsoToNotCentral    = "El destino de un uso no puede ser la bodega central."
	MsgStockUnverifiable  = "No se pudo verificar el stock disponible. Recarga el stock e intenta de nuevo."
	MsgStockDepleted      = "No se puede registrar el uso: el stock en bodega central es 1 o menos."
)

var printer = message.NewPrinter(language.Spanish)

// FormatQuantity formatea una cantidad con convenciones locales (coma decimal, hasta 3 decimales).
func FormatQuantity(d decimal.Decimal) string {
	return printer.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(MaxQuantityDecimals)))
}

// MsgStockExceeded mensaje cuando la cantidad pedida supera el stock disponible.
func MsgStockExceeded(requested, available decimal.Decimal) string {
	return printer.Sprintf("La cantidad solicitada (%s) supera el stock disponible (%s).",
		FormatQuantity(requested), FormatQuantity(available))
}
