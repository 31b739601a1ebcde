package inventory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

// SessionRegistry sesiones de formulario activas, indexadas por uuid.
type SessionRegistry struct {
	deps    SessionDeps
	maxIdle time.Duration

	mu       sync.RWMutex
	sessions map[string]*FormSession
}

// NewSessionRegistry maxIdle <= 0 desactiva la expiración.
func NewSessionRegistry(deps SessionDeps, maxIdle time.Duration) *SessionRegistry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &SessionRegistry{
		deps:     deps,
		maxIdle:  maxIdle,
		sessions: make(map[string]*FormSession),
	}
}

// Create abre una sesión nueva para owner.
func (r *SessionRegistry) Create(owner string) *FormSession {
	s := NewFormSession(uuid.New().String(), owner, r.deps)
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	if r.deps.Log != nil {
		r.deps.Log.Debug().Str("sesion_id", s.ID()).Msg("sesión de formulario creada")
	}
	return s
}

// Get busca una sesión de owner; domain.ErrNotFound si no existe, expiró o es de otro usuario.
func (r *SessionRegistry) Get(id, owner string) (*FormSession, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.Owner() != owner {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Close desmonta y elimina la sesión de owner.
func (r *SessionRegistry) Close(id, owner string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok && s.Owner() == owner {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok || s.Owner() != owner {
		return domain.ErrNotFound
	}
	s.Close()
	return nil
}

// Sweep cierra las sesiones inactivas por más de maxIdle. Devuelve cuántas cerró.
func (r *SessionRegistry) Sweep() int {
	if r.maxIdle <= 0 {
		return 0
	}
	cutoff := r.deps.Now().Add(-r.maxIdle)
	var expired []*FormSession
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
		if r.deps.Log != nil {
			r.deps.Log.Debug().Str("sesion_id", s.ID()).Msg("sesión de formulario expirada")
		}
	}
	return len(expired)
}

// Len cantidad de sesiones activas.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll desmonta todas las sesiones (apagado).
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*FormSession)
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
