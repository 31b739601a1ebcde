package inventory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// auditTimeout límite para escribir la bitácora tras un envío.
const auditTimeout = 5 * time.Second

// SessionDeps dependencias compartidas por todas las sesiones de formulario.
type SessionDeps struct {
	CentralID     int64
	Stock         StockLookup
	Submitter     MovementSubmitter
	Confirmations *ConfirmationBuilder
	Audit         repository.SubmissionAuditRepository // nil = sin bitácora
	Log           *logger.Logger
	Now           func() time.Time
}

// SessionView foto consistente de una sesión para la capa HTTP.
type SessionView struct {
	ID           string
	Form         entity.MovementForm
	Errors       entity.FormErrors
	Stock        entity.StockSnapshot
	State        SubmissionState
	LastError    *domain.APIError
	Confirmation *Confirmation
	Created      *entity.CreatedMovement
}

// FormSession equivale a una instancia montada del formulario de movimientos.
// FormState, StockSnapshot y estado de envío tienen dueños separados: la sesión (form),
// el StockGuard y el SubmissionController.
type FormSession struct {
	id         string
	owner      string
	deps       SessionDeps
	validator  *inventory.FormValidator
	guard      *StockGuard
	controller *SubmissionController

	mu           sync.Mutex
	form         entity.MovementForm
	submitErrs   entity.FormErrors
	confirmation *Confirmation
	created      *entity.CreatedMovement
	lastSeen     time.Time
	// submitting se marca bajo mu junto con la copia del formulario que se envía;
	// Update lo consulta bajo el mismo candado.
	submitting bool
}

// NewFormSession crea la sesión con el formulario por defecto. owner es el usuario que la abrió.
func NewFormSession(id, owner string, deps SessionDeps) *FormSession {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	validator := inventory.NewFormValidator(deps.CentralID)
	log := deps.Log.Component("formulario_movimiento")
	return &FormSession{
		id:        id,
		owner:     owner,
		deps:      deps,
		validator: validator,
		guard:     NewStockGuard(deps.Stock, deps.CentralID, log),
		controller: NewSubmissionController(
			validator, inventory.NewPayloadBuilder(deps.CentralID), deps.Submitter, log,
		),
		form:     entity.NewMovementForm(deps.CentralID),
		lastSeen: deps.Now(),
	}
}

// ID identificador de la sesión.
func (s *FormSession) ID() string { return s.id }

// Owner usuario dueño de la sesión.
func (s *FormSession) Owner() string { return s.owner }

// Update reemplaza el formulario (edición del usuario) y resincroniza el stock.
func (s *FormSession) Update(ctx context.Context, form entity.MovementForm) (SessionView, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return SessionView{}, domain.ErrSubmissionInProgress
	}
	s.form = inventory.ApplyForcedLocations(form, s.deps.CentralID)
	s.submitErrs = entity.FormErrors{}
	s.lastSeen = s.deps.Now()
	s.controller.Reset()
	// Sync no bloquea; bajo mu el par consultado sigue a la última escritura del formulario.
	s.guard.Sync(ctx, s.form)
	s.mu.Unlock()

	return s.View(), nil
}

// ReloadStock reintenta la consulta de stock del par actual.
func (s *FormSession) ReloadStock(ctx context.Context) SessionView {
	s.touch()
	s.guard.Reload(ctx)
	return s.View()
}

// Submit envía el formulario actual. En éxito reinicia el formulario; en error lo conserva.
func (s *FormSession) Submit(ctx context.Context) (SubmitResult, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return SubmitResult{}, domain.ErrSubmissionInProgress
	}
	s.submitting = true
	form := s.form.Clone()
	s.lastSeen = s.deps.Now()
	s.mu.Unlock()

	res, err := s.controller.Submit(ctx, form, s.guard.Snapshot())

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.mu.Unlock()
		return res, err
	}
	switch res.State {
	case SubmissionSuccess:
		s.form = entity.NewMovementForm(s.deps.CentralID)
		s.submitErrs = entity.FormErrors{}
		s.created = res.Created
		if s.deps.Confirmations != nil && res.Created != nil {
			c := s.deps.Confirmations.Build(*res.Created)
			s.confirmation = &c
		}
		s.guard.Sync(ctx, s.form)
	case SubmissionIdle:
		s.submitErrs = res.Errors
	}
	s.mu.Unlock()

	s.audit(ctx, res)
	return res, nil
}

// audit registra en la bitácora los envíos que llegaron a la API remota. Un fallo
// de la bitácora se registra en el log y no afecta al resultado del envío.
func (s *FormSession) audit(ctx context.Context, res SubmitResult) {
	if s.deps.Audit == nil || res.Payload == nil {
		return
	}
	payload, err := json.Marshal(res.Payload)
	if err != nil {
		s.deps.Log.Error().Err(err).Str("sesion_id", s.id).Msg("serializar payload para bitácora")
		return
	}
	entry := &entity.SubmissionAudit{
		SessionID:  s.id,
		UserID:     s.owner,
		Tipo:       res.Payload.Tipo,
		ProductoID: res.Payload.ProductoID,
		Cantidad:   res.Payload.Cantidad,
		Payload:    payload,
		Outcome:    entity.OutcomeSuccess,
		CreatedAt:  s.deps.Now(),
	}
	if res.Created != nil {
		id := res.Created.ID
		entry.MovementID = &id
	}
	if res.Err != nil {
		status := res.Err.Status
		entry.Outcome = entity.OutcomeError
		entry.ErrorStatus = &status
		entry.ErrorMessage = res.Err.Message
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := s.deps.Audit.Create(auditCtx, entry); err != nil {
		s.deps.Log.Error().Err(err).Str("sesion_id", s.id).Msg("no se pudo escribir la bitácora de envíos")
	}
}

// View devuelve el estado actual con los errores en vivo más los del último envío.
func (s *FormSession) View() SessionView {
	s.mu.Lock()
	form := s.form.Clone()
	submitErrs := s.submitErrs
	confirmation := s.confirmation
	created := s.created
	s.mu.Unlock()

	live := s.validator.Validate(form).Errors
	return SessionView{
		ID:           s.id,
		Form:         form,
		Errors:       live.Merge(submitErrs),
		Stock:        s.guard.Snapshot(),
		State:        s.controller.State(),
		LastError:    s.controller.LastError(),
		Confirmation: confirmation,
		Created:      created,
	}
}

// IdleSince último momento en que el usuario interactuó con la sesión.
func (s *FormSession) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close desmonta la sesión: cancela cualquier consulta de stock pendiente.
func (s *FormSession) Close() {
	s.guard.Close()
}

// WaitStock espera a que terminen las consultas de stock en vuelo.
func (s *FormSession) WaitStock() {
	s.guard.Wait()
}

func (s *FormSession) touch() {
	s.mu.Lock()
	s.lastSeen = s.deps.Now()
	s.mu.Unlock()
}
