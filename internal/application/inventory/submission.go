package inventory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// SubmissionState estado observable del envío.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionValidating SubmissionState = "validating"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSuccess    SubmissionState = "success"
	SubmissionError      SubmissionState = "error"
)

// SubmitResult resultado de un intento de envío.
// Errors no vacío implica que no hubo llamada remota.
type SubmitResult struct {
	State   SubmissionState
	Errors  entity.FormErrors
	Payload *entity.MovementPayload
	Created *entity.CreatedMovement
	Err     *domain.APIError
}

// Accepted indica que la API remota creó el movimiento.
func (r SubmitResult) Accepted() bool {
	return r.State == SubmissionSuccess && r.Created != nil
}

// SubmissionController orquesta validar → verificar stock (uso) → construir payload → enviar.
// No reintenta: cada reintento es una acción explícita del usuario.
type SubmissionController struct {
	validator *inventory.FormValidator
	builder   *inventory.PayloadBuilder
	submitter MovementSubmitter
	log       *logger.Logger

	mu      sync.Mutex
	state   SubmissionState
	lastErr *domain.APIError
}

// NewSubmissionController construye el controlador en estado idle.
func NewSubmissionController(
	validator *inventory.FormValidator,
	builder *inventory.PayloadBuilder,
	submitter MovementSubmitter,
	log *logger.Logger,
) *SubmissionController {
	return &SubmissionController{
		validator: validator,
		builder:   builder,
		submitter: submitter,
		log:       log,
		state:     SubmissionIdle,
	}
}

// State estado actual.
func (c *SubmissionController) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError último error remoto (nil tras un éxito o un reinicio).
func (c *SubmissionController) LastError() *domain.APIError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset vuelve a idle salvo que haya un envío en curso.
func (c *SubmissionController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == SubmissionSubmitting || c.state == SubmissionValidating {
		return
	}
	c.state = SubmissionIdle
	c.lastErr = nil
}

// Submit procesa un envío. Si ya hay uno en curso devuelve domain.ErrSubmissionInProgress
// sin tocar el estado.
func (c *SubmissionController) Submit(
	ctx context.Context,
	form entity.MovementForm,
	snapshot entity.StockSnapshot,
) (SubmitResult, error) {
	c.mu.Lock()
	if c.state == SubmissionSubmitting || c.state == SubmissionValidating {
		c.mu.Unlock()
		return SubmitResult{}, domain.ErrSubmissionInProgress
	}
	c.state = SubmissionValidating
	c.mu.Unlock()

	res := c.validator.Validate(form)
	errs := res.Errors
	if res.IsValid {
		errs = errs.Merge(inventory.CheckStock(form.Tipo, snapshot, *res.Quantity))
	}
	if !errs.Empty() {
		c.finish(SubmissionIdle, nil)
		c.log.Info().Str("tipo", form.Tipo.String()).Int("errores", len(errs.Fields)).
			Msg("movimiento rechazado en validación")
		return SubmitResult{State: SubmissionIdle, Errors: errs}, nil
	}

	payload, err := c.builder.Build(form, *res.Quantity)
	if err != nil {
		// Validate ya garantiza tipo y producto; llegar aquí es un error de programación.
		c.finish(SubmissionIdle, nil)
		return SubmitResult{}, err
	}

	c.mu.Lock()
	c.state = SubmissionSubmitting
	c.mu.Unlock()

	created, err := c.submitter.CreateMovement(ctx, payload)
	if err != nil {
		apiErr := normalizeSubmitError(ctx, err)
		c.finish(SubmissionError, apiErr)
		c.log.Warn().Err(err).Int("status", apiErr.Status).Str("tipo", payload.Tipo.String()).
			Int64("producto_id", payload.ProductoID).Msg("envío de movimiento fallido")
		return SubmitResult{State: SubmissionError, Payload: &payload, Err: apiErr}, nil
	}

	c.finish(SubmissionSuccess, nil)
	c.log.Info().Int64("movimiento_id", created.ID).Str("tipo", payload.Tipo.String()).
		Int64("producto_id", payload.ProductoID).Str("cantidad", payload.Cantidad.String()).
		Msg("movimiento registrado")
	return SubmitResult{State: SubmissionSuccess, Payload: &payload, Created: created}, nil
}

func (c *SubmissionController) finish(state SubmissionState, apiErr *domain.APIError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.lastErr = apiErr
}

func normalizeSubmitError(ctx context.Context, err error) *domain.APIError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return domain.NewAPIError(0, "El envío fue cancelado o excedió el tiempo de espera.", err)
	}
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return domain.NewAPIError(503, "El servicio de inventario no está disponible.", err)
	}
	return domain.NewAPIError(0, "No se pudo registrar el movimiento.", err)
}
