package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

type fakeSource struct {
	items map[entity.CatalogKind][]entity.CatalogItem
	err   error
}

func (f *fakeSource) ListCatalog(_ context.Context, kind entity.CatalogKind) ([]entity.CatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[kind], nil
}

func TestStore_InicialmenteIdle(t *testing.T) {
	s := catalog.NewStore(&fakeSource{}, logger.Nop())
	st := s.Get(entity.CatalogProductos)
	assert.Equal(t, catalog.StatusIdle, st.Status)
	_, ok := s.Lookup(entity.CatalogProductos, 1)
	assert.False(t, ok)
}

func TestStore_ReloadYLookup(t *testing.T) {
	src := &fakeSource{items: map[entity.CatalogKind][]entity.CatalogItem{
		entity.CatalogProductos: {{ID: 7, Nombre: "Harina", Unidad: "kg"}},
	}}
	s := catalog.NewStore(src, logger.Nop())

	st := s.Reload(context.Background(), entity.CatalogProductos)
	require.Equal(t, catalog.StatusReady, st.Status)
	assert.Len(t, st.Data, 1)

	it, ok := s.Lookup(entity.CatalogProductos, 7)
	require.True(t, ok)
	assert.Equal(t, "Harina", it.Nombre)
	assert.Equal(t, "kg", it.Unidad)
}

func TestStore_ErrorConservaDatosPrevios(t *testing.T) {
	src := &fakeSource{items: map[entity.CatalogKind][]entity.CatalogItem{
		entity.CatalogLocaciones: {{ID: 1, Nombre: "Bodega central"}},
	}}
	s := catalog.NewStore(src, logger.Nop())
	s.Reload(context.Background(), entity.CatalogLocaciones)

	src.err = errors.New("503")
	st := s.Reload(context.Background(), entity.CatalogLocaciones)
	assert.Equal(t, catalog.StatusError, st.Status)
	assert.NotEmpty(t, st.Error)

	_, ok := s.Lookup(entity.CatalogLocaciones, 1)
	assert.True(t, ok, "los datos anteriores siguen disponibles")
}

// gatedSource entrega cada llamada por su propio canal, en el orden en que empezaron.
type gatedSource struct {
	started chan chan []entity.CatalogItem
}

func (g *gatedSource) ListCatalog(ctx context.Context, _ entity.CatalogKind) ([]entity.CatalogItem, error) {
	reply := make(chan []entity.CatalogItem, 1)
	g.started <- reply
	return <-reply, nil
}

func TestStore_RecargaConcurrenteGanaLaUltima(t *testing.T) {
	src := &gatedSource{started: make(chan chan []entity.CatalogItem)}
	s := catalog.NewStore(src, logger.Nop())

	done := make(chan catalog.State, 2)
	go func() { done <- s.Reload(context.Background(), entity.CatalogProductos) }()
	vieja := <-src.started
	go func() { done <- s.Reload(context.Background(), entity.CatalogProductos) }()
	nueva := <-src.started

	nueva <- []entity.CatalogItem{{ID: 7, Nombre: "Harina integral"}}
	st := <-done
	assert.Equal(t, catalog.StatusReady, st.Status)

	vieja <- []entity.CatalogItem{{ID: 7, Nombre: "Harina"}}
	st = <-done
	require.Len(t, st.Data, 1)
	assert.Equal(t, "Harina integral", st.Data[0].Nombre, "la respuesta atrasada no pisa la nueva")

	it, ok := s.Lookup(entity.CatalogProductos, 7)
	require.True(t, ok)
	assert.Equal(t, "Harina integral", it.Nombre)
	assert.Equal(t, catalog.StatusReady, s.Get(entity.CatalogProductos).Status)
}
