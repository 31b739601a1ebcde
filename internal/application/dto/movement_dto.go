package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
)

// QuantityInput acepta la cantidad como texto ("5,250") o como número JSON (5.25).
// Se conserva el texto tal cual para que la validación lo interprete.
type QuantityInput string

func (q *QuantityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cantidad: %w", err)
	}
	*q = QuantityInput(n.String())
	return nil
}

// MovementFormRequest body para PUT /api/movimientos/formularios/:id y POST /api/movimientos/validar.
type MovementFormRequest struct {
	Tipo           string        `json:"tipo"`
	ProductoID     *int64        `json:"productoId"`
	Quantity       QuantityInput `json:"quantity"`
	FromLocationID *int64        `json:"fromLocationId"`
	ToLocationID   *int64        `json:"toLocationId"`
	PersonaID      *int64        `json:"personaId"`
	ProveedorID    *int64        `json:"proveedorId"`
	Nota           string        `json:"nota"`
	ConfirmUnit    bool          `json:"confirmUnit"`
}

// ToForm convierte el request en el estado de formulario. El tipo se normaliza ("Uso" → uso);
// uno desconocido se conserva tal cual para que el validador lo reporte en el campo tipo.
func (r MovementFormRequest) ToForm() entity.MovementForm {
	tipo, err := entity.ParseMovementType(r.Tipo)
	if err != nil {
		tipo = entity.MovementType(r.Tipo)
	}
	return entity.MovementForm{
		Tipo:           tipo,
		ProductoID:     r.ProductoID,
		Quantity:       string(r.Quantity),
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		PersonaID:      r.PersonaID,
		ProveedorID:    r.ProveedorID,
		Nota:           r.Nota,
		ConfirmUnit:    r.ConfirmUnit,
	}
}

// StockDTO foto del stock para la UI.
type StockDTO struct {
	Status     entity.StockStatus `json:"status"`
	ProductoID int64              `json:"producto_id,omitempty"`
	LocacionID int64              `json:"locacion_id,omitempty"`
	Value      *decimal.Decimal   `json:"value,omitempty"`
	Formatted  string             `json:"formatted,omitempty"` // "1.234,5"
	Error      string             `json:"error,omitempty"`
}

// NewStockDTO mapea el snapshot.
func NewStockDTO(s entity.StockSnapshot) StockDTO {
	out := StockDTO{
		Status:     s.Status,
		ProductoID: s.ProductoID,
		LocacionID: s.LocationID,
		Value:      s.Value,
		Error:      s.Error,
	}
	if s.Value != nil {
		out.Formatted = inventory.FormatQuantity(*s.Value)
	}
	return out
}

// SubmissionDTO estado del envío.
type SubmissionDTO struct {
	State appinv.SubmissionState `json:"state"`
	Error *domain.APIError       `json:"error,omitempty"`
}

// SessionResponse vista completa de una sesión de formulario.
type SessionResponse struct {
	ID           string                   `json:"id"`
	Form         entity.MovementForm      `json:"form"`
	Rules        *inventory.MovementRules `json:"rules,omitempty"`
	Errors       entity.FormErrors        `json:"errors"`
	IsValid      bool                     `json:"is_valid"`
	Stock        StockDTO                 `json:"stock"`
	Submission   SubmissionDTO            `json:"submission"`
	Confirmation *appinv.Confirmation     `json:"confirmation,omitempty"`
	Created      *entity.CreatedMovement  `json:"created,omitempty"`
}

// NewSessionResponse mapea la vista de la sesión.
func NewSessionResponse(v appinv.SessionView) SessionResponse {
	out := SessionResponse{
		ID:           v.ID,
		Form:         v.Form,
		Errors:       v.Errors,
		IsValid:      v.Errors.Empty(),
		Stock:        NewStockDTO(v.Stock),
		Submission:   SubmissionDTO{State: v.State, Error: v.LastError},
		Confirmation: v.Confirmation,
		Created:      v.Created,
	}
	if rules, err := inventory.ResolveRules(v.Form.Tipo); err == nil {
		out.Rules = &rules
	}
	return out
}

// SubmitResponse 201 tras crear el movimiento.
type SubmitResponse struct {
	Movement     *entity.CreatedMovement `json:"movement"`
	Confirmation *appinv.Confirmation    `json:"confirmation,omitempty"`
	Session      SessionResponse         `json:"session"`
}

// ValidateResponse resultado de POST /api/movimientos/validar.
type ValidateResponse struct {
	IsValid bool                    `json:"is_valid"`
	Errors  entity.FormErrors       `json:"errors"`
	Stock   StockDTO                `json:"stock"`
	Payload *entity.MovementPayload `json:"payload,omitempty"`
}

// NewValidateResponse mapea el resultado de la previsualización.
func NewValidateResponse(r appinv.PreviewResult) ValidateResponse {
	return ValidateResponse{
		IsValid: r.Errors.Empty() && r.Payload != nil,
		Errors:  r.Errors,
		Stock:   NewStockDTO(r.Stock),
		Payload: r.Payload,
	}
}
