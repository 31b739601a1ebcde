package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionOutcome resultado de un envío que llegó a la API remota.
type SubmissionOutcome string

const (
	OutcomeSuccess SubmissionOutcome = "success"
	OutcomeError   SubmissionOutcome = "error"
)

// SubmissionAudit registro de bitácora de un intento de envío (exitoso o fallido).
// Los envíos rechazados por validación local no se registran: no salieron del servicio.
type SubmissionAudit struct {
	ID           string            `json:"id"`
	SessionID    string            `json:"sesion_id"`
	UserID       string            `json:"user_id"`
	Tipo         MovementType      `json:"tipo"`
	ProductoID   int64             `json:"producto_id"`
	Cantidad     decimal.Decimal   `json:"cantidad"`
	Payload      json.RawMessage   `json:"payload"`
	Outcome      SubmissionOutcome `json:"outcome"`
	MovementID   *int64            `json:"movimiento_id,omitempty"`
	ErrorStatus  *int              `json:"error_status,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
