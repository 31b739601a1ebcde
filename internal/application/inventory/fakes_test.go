package inventory_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

const central int64 = 1

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type stockResult struct {
	raw json.RawMessage
	err error
}

type stockCall struct {
	ctx        context.Context
	productoID int64
	locationID int64
}

// gatedLookup bloquea cada consulta hasta que el test libera el resultado del producto.
// Ignora la cancelación a propósito: simula una respuesta que llega tarde igualmente.
type gatedLookup struct {
	mu    sync.Mutex
	gates map[int64]chan stockResult
	calls []stockCall
}

func newGatedLookup() *gatedLookup {
	return &gatedLookup{gates: make(map[int64]chan stockResult)}
}

func (g *gatedLookup) gate(productoID int64) chan stockResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[productoID]
	if !ok {
		ch = make(chan stockResult, 4)
		g.gates[productoID] = ch
	}
	return ch
}

func (g *gatedLookup) release(productoID int64, raw string, err error) {
	g.gate(productoID) <- stockResult{raw: json.RawMessage(raw), err: err}
}

func (g *gatedLookup) GetStock(ctx context.Context, productoID, locationID int64) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls = append(g.calls, stockCall{ctx: ctx, productoID: productoID, locationID: locationID})
	g.mu.Unlock()
	r := <-g.gate(productoID)
	return r.raw, r.err
}

func (g *gatedLookup) Calls() []stockCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]stockCall(nil), g.calls...)
}

// ctxLookup responde solo cuando se cancela su contexto.
type ctxLookup struct {
	mu    sync.Mutex
	calls []stockCall
}

func (l *ctxLookup) GetStock(ctx context.Context, productoID, locationID int64) (json.RawMessage, error) {
	l.mu.Lock()
	l.calls = append(l.calls, stockCall{ctx: ctx, productoID: productoID, locationID: locationID})
	l.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (l *ctxLookup) Calls() []stockCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]stockCall(nil), l.calls...)
}

// staticLookup responde siempre lo mismo.
type staticLookup struct {
	raw string
	err error
}

func (l staticLookup) GetStock(context.Context, int64, int64) (json.RawMessage, error) {
	return json.RawMessage(l.raw), l.err
}

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []entity.MovementPayload
	err      error
	block    chan struct{}
	nextID   int64
}

func (f *fakeSubmitter) CreateMovement(ctx context.Context, p entity.MovementPayload) (*entity.CreatedMovement, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	block := f.block
	err := f.err
	f.nextID++
	id := f.nextID
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &entity.CreatedMovement{
		ID:             id,
		Tipo:           p.Tipo,
		ProductoID:     p.ProductoID,
		Cantidad:       p.Cantidad,
		FromLocacionID: p.FromLocacionID,
		ToLocacionID:   p.ToLocacionID,
		PersonaID:      p.PersonaID,
		ProveedorID:    p.ProveedorID,
		Nota:           p.Nota,
	}, nil
}

func (f *fakeSubmitter) Payloads() []entity.MovementPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.MovementPayload(nil), f.payloads...)
}

type fakeCatalogs map[entity.CatalogKind]map[int64]entity.CatalogItem

func (f fakeCatalogs) Lookup(kind entity.CatalogKind, id int64) (entity.CatalogItem, bool) {
	it, ok := f[kind][id]
	return it, ok
}

func usoForm(qty string) entity.MovementForm {
	return entity.MovementForm{
		Tipo:           entity.MovementTypeUso,
		ProductoID:     entity.Int64Ptr(7),
		Quantity:       qty,
		FromLocationID: entity.Int64Ptr(central),
		ConfirmUnit:    true,
	}
}

func readySnap(v string) entity.StockSnapshot {
	d := decimal.RequireFromString(v)
	return entity.ReadySnapshot(7, central, &d)
}

func decimalOf(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []*entity.SubmissionAudit
	err     error

	lastUser          string
	lastLimit, lastOf int
}

func (f *fakeAudit) Create(ctx context.Context, a *entity.SubmissionAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, a)
	return nil
}

func (f *fakeAudit) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SubmissionAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser, f.lastLimit, f.lastOf = userID, limit, offset
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.SubmissionAudit
	for _, e := range f.entries {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAudit) Entries() []*entity.SubmissionAudit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.SubmissionAudit(nil), f.entries...)
}
