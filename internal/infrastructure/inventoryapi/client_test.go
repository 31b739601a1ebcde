package inventoryapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/inventoryapi"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

func newClient(t *testing.T, h http.Handler, failures uint32) *inventoryapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return inventoryapi.New(inventoryapi.Config{
		BaseURL: srv.URL + "/",
		Timeout: 2 * time.Second,
		Breaker: inventoryapi.BreakerSettings{
			MaxRequests:         1,
			ConsecutiveFailures: failures,
			OpenTimeout:         time.Minute,
		},
	}, logger.Nop())
}

func apiError(t *testing.T, err error) *domain.APIError {
	t.Helper()
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStock_ReenviaTokenYParametros(t *testing.T) {
	var gotAuth, gotReqID, gotQuery string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(inventoryapi.HeaderRequestID)
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"stock": "1.234,5"}`)
	}), 5)

	ctx := inventoryapi.WithToken(context.Background(), "abc")
	ctx = inventoryapi.WithRequestID(ctx, "req-1")
	raw, err := c.GetStock(ctx, 7, 1)
	require.NoError(t, err)

	assert.JSONEq(t, `"1.234,5"`, string(raw))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "req-1", gotReqID)
	assert.Equal(t, "locacion_id=1&producto_id=7", gotQuery)
}

func TestGetStock_GeneraRequestIDSiFalta(t *testing.T) {
	var gotReqID, gotAuth string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get(inventoryapi.HeaderRequestID)
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"stock": 3}`)
	}), 5)

	raw, err := c.GetStock(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw))
	assert.Len(t, gotReqID, 36)
	assert.Empty(t, gotAuth)
}

func TestGetStock_CancelacionDevuelveStatusCero(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), 5)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.GetStock(ctx, 7, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, apiError(t, err).Status)
	assert.Equal(t, "closed", c.BreakerState(), "la cancelación no cuenta como fallo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_EnviaPayloadCanonico(t *testing.T) {
	var body map[string]any
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/movimientos", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 99, "tipo": "uso", "producto_id": 7, "cantidad": "5.25", "from_locacion_id": 1, "to_locacion_id": null}`)
	}), 5)

	created, err := c.CreateMovement(context.Background(), entity.MovementPayload{
		Tipo:           entity.MovementTypeUso,
		ProductoID:     7,
		Cantidad:       decimal.RequireFromString("5.25"),
		FromLocacionID: entity.Int64Ptr(1),
		OmitToLocacion: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
	assert.True(t, created.Cantidad.Equal(decimal.RequireFromString("5.25")))

	assert.Equal(t, 5.25, body["cantidad"])
	_, hasTo := body["to_locacion_id"]
	assert.False(t, hasTo)
}

func TestCreateMovement_ErrorEstructurado(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message": "Datos inválidos", "detail": "stock insuficiente", "errors": {"cantidad": ["excede stock"]}}`)
	}), 5)

	_, err := c.CreateMovement(context.Background(), entity.MovementPayload{Tipo: entity.MovementTypeAjuste, ProductoID: 7})
	apiErr := apiError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Datos inválidos", apiErr.Message)
	assert.Equal(t, "stock insuficiente", apiErr.Detail)
	assert.Equal(t, "excede stock", apiErr.FieldErrors["cantidad"])
	assert.False(t, apiErr.Retryable())
}

func TestCreateMovement_ErrorNoJSON(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream caído")
	}), 5)

	_, err := c.CreateMovement(context.Background(), entity.MovementPayload{Tipo: entity.MovementTypeAjuste, ProductoID: 7})
	apiErr := apiError(t, err)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream caído", apiErr.Detail)
	assert.True(t, apiErr.Retryable())
}

func TestCreateMovement_TokenRechazado(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), 1)

	_, err := c.CreateMovement(context.Background(), entity.MovementPayload{Tipo: entity.MovementTypeAjuste, ProductoID: 7})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, apiError(t, err).Status)
	assert.Equal(t, "closed", c.BreakerState())
}

// ──────────────────────────────────────────────────────────────────────────────
// Circuit breaker
// ──────────────────────────────────────────────────────────────────────────────

func TestBreaker_AbreTrasFallos5xx(t *testing.T) {
	var hits atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), 2)

	for i := 0; i < 2; i++ {
		_, err := c.GetStock(context.Background(), 7, 1)
		assert.Equal(t, http.StatusInternalServerError, apiError(t, err).Status)
	}
	assert.Equal(t, "open", c.BreakerState())

	_, err := c.GetStock(context.Background(), 7, 1)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, apiError(t, err).Status)
	assert.Equal(t, int32(2), hits.Load(), "con el breaker abierto no sale la petición")
}

func TestBreaker_ErroresDeClienteNoAbren(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail": "Producto no existe"}`)
	}), 1)

	for i := 0; i < 3; i++ {
		_, err := c.GetStock(context.Background(), 7, 1)
		apiErr := apiError(t, err)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "Producto no existe", apiErr.Detail)
	}
	assert.Equal(t, "closed", c.BreakerState())
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogos
// ──────────────────────────────────────────────────────────────────────────────

func TestListCatalog_ArregloYEnvuelto(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/productos":
			_, _ = io.WriteString(w, `[{"id": 7, "nombre": "Harina", "unidad": "kg"}]`)
		case "/api/locaciones":
			_, _ = io.WriteString(w, `{"data": [{"id": 1, "nombre": "Bodega central"}]}`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	}), 5)

	prods, err := c.ListCatalog(context.Background(), entity.CatalogProductos)
	require.NoError(t, err)
	assert.Equal(t, []entity.CatalogItem{{ID: 7, Nombre: "Harina", Unidad: "kg"}}, prods)

	locs, err := c.ListCatalog(context.Background(), entity.CatalogLocaciones)
	require.NoError(t, err)
	assert.Equal(t, "Bodega central", locs[0].Nombre)

	vacio, err := c.ListCatalog(context.Background(), entity.CatalogPersonas)
	require.NoError(t, err)
	assert.Empty(t, vacio)
}
