package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// HeaderRequestID se propaga a la API remota para correlacionar logs.
const HeaderRequestID = "X-Request-ID"

// maxErrorBody límite de lectura del cuerpo de una respuesta de error.
const maxErrorBody = 64 << 10

// Config parámetros del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerSettings
}

// BreakerSettings umbrales del circuit breaker.
type BreakerSettings struct {
	MaxRequests         uint32
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Client cliente HTTP de la API de inventario. Todas las llamadas pasan por un único
// circuit breaker: solo los fallos de red y los 5xx cuentan como fallo.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// New construye el cliente.
func New(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	log = log.Component("inventory_api")

	failures := cfg.Breaker.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "inventory-api",
		MaxRequests: cfg.Breaker.MaxRequests,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("desde", from.String()).Str("hacia", to.String()).
				Msg("cambio de estado del circuit breaker")
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		log:        log,
	}
}

// BreakerState estado actual del breaker (closed, half-open, open).
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

type tokenKey struct{}
type requestIDKey struct{}

// WithToken adjunta el bearer token del usuario; el cliente lo reenvía tal cual.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// WithRequestID fija el X-Request-ID a propagar.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func tokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

func requestIDFrom(ctx context.Context) string {
	if s, _ := ctx.Value(requestIDKey{}).(string); s != "" {
		return s
	}
	return uuid.New().String()
}

func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status > 0 && apiErr.Status < 500
	}
	return false
}

// do ejecuta la petición a través del breaker y decodifica la respuesta en out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, accept ...int) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, query, body, out, accept)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.NewAPIError(http.StatusServiceUnavailable,
			"El servicio de inventario no está disponible. Intente más tarde.",
			fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any, accept []int) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("inventoryapi: serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("inventoryapi: crear petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := tokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	reqID := requestIDFrom(ctx)
	req.Header.Set(HeaderRequestID, reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).
			Msg("petición a la API de inventario sin respuesta")
		if ctx.Err() != nil {
			return domain.NewAPIError(0, "La petición fue cancelada o excedió el tiempo de espera.", err)
		}
		return domain.NewAPIError(0, "No se pudo conectar con la API de inventario.", err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("duracion", time.Since(start)).Str("request_id", reqID).Msg("API de inventario")

	if !accepted(resp.StatusCode, accept) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewAPIError(resp.StatusCode, "Respuesta inválida de la API de inventario.", err)
	}
	return nil
}

func accepted(status int, accept []int) bool {
	if len(accept) == 0 {
		return status == http.StatusOK
	}
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}

// errorBody cubre las formas habituales de error de la API: {message}, {error}, {detail} y {errors: {campo: msg}}.
type errorBody struct {
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Detail  json.RawMessage            `json:"detail"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func decodeError(status int, raw []byte) *domain.APIError {
	apiErr := domain.NewAPIError(status, defaultMessage(status), statusCause(status))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		if text := strings.TrimSpace(string(raw)); text != "" {
			apiErr.Detail = text
		}
		return apiErr
	}

	if body.Message != "" {
		apiErr.Message = body.Message
	}
	if body.Error != "" {
		if body.Message == "" {
			apiErr.Message = body.Error
		} else {
			apiErr.ErrorDetail = body.Error
		}
	}
	if len(body.Detail) > 0 && string(body.Detail) != "null" {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(body.Detail)
		}
	}
	if len(body.Errors) > 0 {
		apiErr.FieldErrors = make(map[string]string, len(body.Errors))
		for field, msg := range body.Errors {
			apiErr.FieldErrors[field] = firstMessage(msg)
		}
	}
	return apiErr
}

// statusCause permite errors.Is(err, domain.ErrUnauthorized) sobre rechazos de credenciales.
func statusCause(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	}
	return nil
}

// firstMessage acepta "msg" o ["msg", ...].
func firstMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0]
	}
	return string(raw)
}

func defaultMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Sesión inválida o expirada."
	case status == http.StatusForbidden:
		return "No tiene permisos para esta operación."
	case status == http.StatusNotFound:
		return "Recurso no encontrado en la API de inventario."
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return "La API de inventario rechazó los datos enviados."
	case status >= 500:
		return "Error interno de la API de inventario."
	default:
		return fmt.Sprintf("La API de inventario respondió con estado %d.", status)
	}
}
