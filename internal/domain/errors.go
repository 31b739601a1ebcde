package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnknownMovementType  = errors.New("tipo de movimiento desconocido")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrSubmissionInProgress = errors.New("ya hay un envío en curso para este formulario")
	ErrUpstreamUnavailable  = errors.New("servicio de inventario no disponible")
)

// APIError es el error estructurado devuelto por la API de inventario remota.
// Status 0 indica que no hubo respuesta HTTP (fallo de red o cancelación).
type APIError struct {
	Status      int               `json:"status"`
	Message     string            `json:"message"`
	Detail      string            `json:"detail,omitempty"`
	ErrorDetail string            `json:"error_detail,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	cause       error
}

// NewAPIError construye un APIError conservando la causa original para errors.Is/As.
func NewAPIError(status int, message string, cause error) *APIError {
	return &APIError{Status: status, Message: message, cause: cause}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api inventario (%d): %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api inventario (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// Retryable indica si tiene sentido que el usuario reintente manualmente.
func (e *APIError) Retryable() bool {
	return e.Status == 0 || e.Status >= 500 || e.Status == 429
}
