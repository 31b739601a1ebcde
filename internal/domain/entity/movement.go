package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MovementPayload cuerpo canónico para POST /api/movimientos.
// OmitToLocacion elimina la clave to_locacion_id del JSON (uso sin destino).
type MovementPayload struct {
	Tipo           MovementType
	ProductoID     int64
	Cantidad       decimal.Decimal
	FromLocacionID *int64
	ToLocacionID   *int64
	OmitToLocacion bool
	PersonaID      *int64
	ProveedorID    *int64
	Nota           *string
}

type payloadWire struct {
	Tipo           MovementType `json:"tipo"`
	ProductoID     int64        `json:"producto_id"`
	Cantidad       json.Number  `json:"cantidad"`
	FromLocacionID *int64       `json:"from_locacion_id"`
	ToLocacionID   *optionalID  `json:"to_locacion_id,omitempty"`
	PersonaID      *int64       `json:"persona_id"`
	ProveedorID    *int64       `json:"proveedor_id"`
	Nota           *string      `json:"nota"`
}

// optionalID serializa null o número; el puntero externo decide si la clave aparece.
type optionalID struct{ v *int64 }

func (o optionalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.v)
}

// MarshalJSON emite cantidad como número y respeta OmitToLocacion.
func (p MovementPayload) MarshalJSON() ([]byte, error) {
	w := payloadWire{
		Tipo:           p.Tipo,
		ProductoID:     p.ProductoID,
		Cantidad:       json.Number(p.Cantidad.String()),
		FromLocacionID: p.FromLocacionID,
		PersonaID:      p.PersonaID,
		ProveedorID:    p.ProveedorID,
		Nota:           p.Nota,
	}
	if !p.OmitToLocacion {
		w.ToLocacionID = &optionalID{v: p.ToLocacionID}
	}
	return json.Marshal(w)
}

// CreatedMovement registro creado por la API remota (mismos campos del payload más id y fecha).
type CreatedMovement struct {
	ID             int64           `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Tipo           MovementType    `json:"tipo"`
	ProductoID     int64           `json:"producto_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	FromLocacionID *int64          `json:"from_locacion_id"`
	ToLocacionID   *int64          `json:"to_locacion_id"`
	PersonaID      *int64          `json:"persona_id"`
	ProveedorID    *int64          `json:"proveedor_id"`
	Nota           *string         `json:"nota"`
}
