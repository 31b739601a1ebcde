package catalog

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// Source obtiene un catálogo completo desde la API remota.
type Source interface {
	ListCatalog(ctx context.Context, kind entity.CatalogKind) ([]entity.CatalogItem, error)
}

// Status estado de carga de un catálogo.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// State lo que expone el store por catálogo: {status, data, error}.
type State struct {
	Kind   entity.CatalogKind   `json:"tipo"`
	Status Status               `json:"status"`
	Data   []entity.CatalogItem `json:"data,omitempty"`
	Error  string               `json:"error,omitempty"`
}

type slot struct {
	state State
	byID  map[int64]entity.CatalogItem
	gen   uint64 // última recarga iniciada; solo esa puede aplicar su resultado
}

// Store caché de catálogos en memoria. No expira: la recarga es explícita.
type Store struct {
	source Source
	log    *logger.Logger

	mu    sync.RWMutex
	slots map[entity.CatalogKind]*slot
}

// NewStore construye el store con todos los catálogos en idle.
func NewStore(source Source, log *logger.Logger) *Store {
	slots := make(map[entity.CatalogKind]*slot, len(entity.CatalogKinds))
	for _, k := range entity.CatalogKinds {
		slots[k] = &slot{state: State{Kind: k, Status: StatusIdle}}
	}
	return &Store{source: source, log: log, slots: slots}
}

// Get estado actual del catálogo.
func (s *Store) Get(kind entity.CatalogKind) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[kind]
	if !ok {
		return State{Kind: kind, Status: StatusIdle}
	}
	return sl.state
}

// Reload vuelve a pedir el catálogo. Si falla conserva los datos anteriores y marca error.
// Con recargas concurrentes gana la última iniciada; las anteriores devuelven el estado vigente.
func (s *Store) Reload(ctx context.Context, kind entity.CatalogKind) State {
	s.mu.Lock()
	sl, ok := s.slots[kind]
	if !ok {
		sl = &slot{state: State{Kind: kind}}
		s.slots[kind] = sl
	}
	sl.gen++
	gen := sl.gen
	sl.state.Status = StatusLoading
	sl.state.Error = ""
	s.mu.Unlock()

	items, err := s.source.ListCatalog(ctx, kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sl.gen != gen {
		s.log.Debug().Str("catalogo", string(kind)).Msg("respuesta de catálogo obsoleta descartada")
		return sl.state
	}
	if err != nil {
		s.log.Warn().Err(err).Str("catalogo", string(kind)).Msg("no se pudo cargar el catálogo")
		sl.state.Status = StatusError
		sl.state.Error = "No se pudo cargar el catálogo."
		return sl.state
	}
	byID := make(map[int64]entity.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	sl.byID = byID
	sl.state.Status = StatusReady
	sl.state.Data = items
	return sl.state
}

// Lookup busca un elemento por id entre los datos ya cargados.
func (s *Store) Lookup(kind entity.CatalogKind, id int64) (entity.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[kind]
	if !ok || sl.byID == nil {
		return entity.CatalogItem{}, false
	}
	it, ok := sl.byID[id]
	return it, ok
}
