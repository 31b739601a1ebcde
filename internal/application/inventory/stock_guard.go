package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

const msgStockFetchFailed = "No se pudo consultar el stock."

type stockKey struct {
	productoID int64
	locationID int64
}

// StockGuard mantiene el StockSnapshot del par (producto, ubicación efectiva) del formulario.
// Cada consulta lleva una generación; una respuesta solo se aplica si su generación sigue
// siendo la actual, de modo que respuestas que llegan fuera de orden se descartan.
type StockGuard struct {
	lookup    StockLookup
	centralID int64
	log       *logger.Logger

	mu       sync.Mutex
	gen      uint64
	key      *stockKey
	cancel   context.CancelFunc
	snapshot entity.StockSnapshot
	closed   bool
	inflight sync.WaitGroup
}

// NewStockGuard construye el guard en estado idle.
func NewStockGuard(lookup StockLookup, centralID int64, log *logger.Logger) *StockGuard {
	return &StockGuard{
		lookup:    lookup,
		centralID: centralID,
		log:       log,
		snapshot:  entity.IdleSnapshot(),
	}
}

// Sync ajusta el guard al formulario actual. Si el par efectivo no cambió no hace nada;
// si cambió, cancela la consulta anterior y lanza una nueva. ctx solo aporta valores
// (token, request id): la consulta no se cancela cuando ctx termina.
func (g *StockGuard) Sync(ctx context.Context, form entity.MovementForm) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if form.ProductoID == nil {
		g.resetLocked()
		return
	}
	next := stockKey{
		productoID: *form.ProductoID,
		locationID: inventory.EffectiveStockLocation(form.Tipo, form.FromLocationID, g.centralID),
	}
	if g.key != nil && *g.key == next {
		return
	}
	g.startLocked(ctx, next)
}

// Reload vuelve a consultar el par actual (reintento manual del usuario).
func (g *StockGuard) Reload(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.key == nil {
		return
	}
	g.startLocked(ctx, *g.key)
}

// Snapshot devuelve una copia del estado actual.
func (g *StockGuard) Snapshot() entity.StockSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot
}

// Wait bloquea hasta que terminen las consultas lanzadas (aplicadas o descartadas).
func (g *StockGuard) Wait() {
	g.inflight.Wait()
}

// Close cancela cualquier consulta pendiente; el guard queda inutilizable.
func (g *StockGuard) Close() {
	g.mu.Lock()
	g.resetLocked()
	g.closed = true
	g.mu.Unlock()
	g.inflight.Wait()
}

func (g *StockGuard) resetLocked() {
	g.releaseLocked()
	g.gen++
	g.key = nil
	g.snapshot = entity.IdleSnapshot()
}

func (g *StockGuard) startLocked(ctx context.Context, key stockKey) {
	if g.cancel != nil {
		g.cancel()
	}
	g.gen++
	gen := g.gen
	g.key = &key
	g.snapshot = entity.StockSnapshot{
		Status:     entity.StockStatusLoading,
		ProductoID: key.productoID,
		LocationID: key.locationID,
	}

	lookupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g.cancel = cancel

	g.log.Debug().Int64("producto_id", key.productoID).Int64("locacion_id", key.locationID).
		Uint64("gen", gen).Msg("consulta de stock iniciada")

	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		raw, err := g.lookup.GetStock(lookupCtx, key.productoID, key.locationID)
		g.apply(lookupCtx, gen, key, raw, err)
	}()
}

func (g *StockGuard) apply(ctx context.Context, gen uint64, key stockKey, raw json.RawMessage, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.gen {
		g.log.Debug().Int64("producto_id", key.productoID).Uint64("gen", gen).
			Msg("respuesta de stock obsoleta descartada")
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		g.log.Warn().Err(err).Int64("producto_id", key.productoID).Int64("locacion_id", key.locationID).
			Msg("consulta de stock fallida")
		g.snapshot = entity.StockSnapshot{
			Status:     entity.StockStatusError,
			ProductoID: key.productoID,
			LocationID: key.locationID,
			Error:      stockErrorMessage(err),
		}
		g.releaseLocked()
		return
	}
	g.snapshot = entity.ReadySnapshot(key.productoID, key.locationID, inventory.ParseStockValue(raw))
	g.releaseLocked()
}

// releaseLocked libera el contexto de la consulta vigente una vez aplicada su respuesta.
func (g *StockGuard) releaseLocked() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

func stockErrorMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return msgStockFetchFailed + " " + apiErr.Message
	}
	return msgStockFetchFailed
}
