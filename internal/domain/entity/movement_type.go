package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

// MovementType tipo de movimiento de inventario (variante cerrada).
type MovementType string

// Tipos de movimiento.
const (
	MovementTypeIngreso  MovementType = "ingreso"  // entrada de stock a la bodega central
	MovementTypeUso      MovementType = "uso"      // consumo desde la bodega central
	MovementTypeTraspaso MovementType = "traspaso" // traslado entre dos ubicaciones
	MovementTypeAjuste   MovementType = "ajuste"   // corrección manual
)

// MovementTypes lista los tipos en el orden en que se muestran en el formulario.
var MovementTypes = []MovementType{
	MovementTypeIngreso,
	MovementTypeUso,
	MovementTypeTraspaso,
	MovementTypeAjuste,
}

// Valid indica si el valor pertenece a la variante cerrada.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIngreso, MovementTypeUso, MovementTypeTraspaso, MovementTypeAjuste:
		return true
	}
	return false
}

func (t MovementType) String() string { return string(t) }

// Label nombre legible para mensajes de confirmación.
func (t MovementType) Label() string {
	switch t {
	case MovementTypeIngreso:
		return "Ingreso"
	case MovementTypeUso:
		return "Uso"
	case MovementTypeTraspaso:
		return "Traspaso"
	case MovementTypeAjuste:
		return "Ajuste"
	}
	return string(t)
}

// ParseMovementType normaliza y valida un tipo recibido como texto.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMovementType, s)
	}
	return t, nil
}
