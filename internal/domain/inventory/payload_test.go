package inventory_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
)

func build(t *testing.T, f entity.MovementForm, qty string) (entity.MovementPayload, map[string]any) {
	t.Helper()
	p, err := inventory.NewPayloadBuilder(central).Build(f, decimal.RequireFromString(qty))
	require.NoError(t, err)
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return p, m
}

func TestBuild_UsoFuerzaOrigenCentral(t *testing.T) {
	f := validForm(entity.MovementTypeUso)
	f.FromLocationID = entity.Int64Ptr(99)
	p, m := build(t, f, "2")
	require.NotNil(t, p.FromLocacionID)
	assert.Equal(t, central, *p.FromLocacionID)
	assert.EqualValues(t, central, m["from_locacion_id"])
}

func TestBuild_UsoSinDestinoOmiteClave(t *testing.T) {
	f := validForm(entity.MovementTypeUso)
	f.Quantity = "5,250"
	_, m := build(t, f, "5.250")

	assert.Equal(t, map[string]any{
		"tipo":             "uso",
		"producto_id":      float64(7),
		"cantidad":         5.25,
		"from_locacion_id": float64(central),
		"persona_id":       nil,
		"proveedor_id":     nil,
		"nota":             nil,
	}, m)
	_, present := m["to_locacion_id"]
	assert.False(t, present)
}

func TestBuild_UsoConDestino(t *testing.T) {
	f := validForm(entity.MovementTypeUso)
	f.ToLocationID = entity.Int64Ptr(4)
	_, m := build(t, f, "1")
	assert.EqualValues(t, 4, m["to_locacion_id"])
}

func TestBuild_IngresoFuerzaCentral(t *testing.T) {
	f := validForm(entity.MovementTypeIngreso)
	f.FromLocationID = entity.Int64Ptr(3)
	f.ToLocationID = entity.Int64Ptr(8)
	f.ProveedorID = entity.Int64Ptr(11)
	f.Nota = "  factura 123  "
	p, m := build(t, f, "3")
	assert.Nil(t, p.FromLocacionID)
	assert.Equal(t, central, *p.ToLocacionID)
	assert.Nil(t, m["from_locacion_id"])
	assert.EqualValues(t, 11, m["proveedor_id"])
	assert.Equal(t, "factura 123", m["nota"])
}

func TestBuild_TraspasoYAjustePasanUbicaciones(t *testing.T) {
	p, m := build(t, validForm(entity.MovementTypeTraspaso), "1")
	assert.Equal(t, int64(2), *p.FromLocacionID)
	assert.Equal(t, int64(3), *p.ToLocacionID)
	assert.EqualValues(t, 3, m["to_locacion_id"])

	_, m = build(t, validForm(entity.MovementTypeAjuste), "1")
	assert.Nil(t, m["from_locacion_id"])
	_, present := m["to_locacion_id"]
	assert.True(t, present, "en ajuste la clave siempre aparece")
}

func TestBuild_RedondeaATresDecimales(t *testing.T) {
	p, _ := build(t, validForm(entity.MovementTypeAjuste), "1.23456")
	assert.Equal(t, "1.235", p.Cantidad.String())
}

func TestBuild_NotaVaciaEsNull(t *testing.T) {
	f := validForm(entity.MovementTypeAjuste)
	f.Nota = "   "
	p, _ := build(t, f, "1")
	assert.Nil(t, p.Nota)
}

func TestBuild_Errores(t *testing.T) {
	b := inventory.NewPayloadBuilder(central)
	f := validForm(entity.MovementTypeAjuste)
	f.ProductoID = nil
	_, err := b.Build(f, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f = validForm(entity.MovementTypeAjuste)
	f.Tipo = "otro"
	_, err = b.Build(f, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrUnknownMovementType)
}
