package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

func newAuditedSession(t *testing.T, sub appinv.MovementSubmitter, audit *fakeAudit) *appinv.FormSession {
	t.Helper()
	s := appinv.NewFormSession("s-1", "u-1", appinv.SessionDeps{
		CentralID: central,
		Stock:     staticLookup{raw: `10`},
		Submitter: sub,
		Audit:     audit,
		Log:       logger.Nop(),
		Now:       func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(s.Close)
	return s
}

func TestFormSession_BitacoraRegistraEnvioExitoso(t *testing.T) {
	audit := &fakeAudit{}
	s := newAuditedSession(t, &fakeSubmitter{}, audit)

	_, err := s.Update(context.Background(), usoForm("5,25"))
	require.NoError(t, err)
	s.WaitStock()
	_, err = s.Submit(context.Background())
	require.NoError(t, err)

	entries := audit.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "s-1", e.SessionID)
	assert.Equal(t, "u-1", e.UserID)
	assert.Equal(t, entity.MovementTypeUso, e.Tipo)
	assert.Equal(t, int64(7), e.ProductoID)
	assert.True(t, decimalOf("5.25").Equal(e.Cantidad))
	assert.Equal(t, entity.OutcomeSuccess, e.Outcome)
	require.NotNil(t, e.MovementID)
	assert.Equal(t, int64(1), *e.MovementID)
	assert.Nil(t, e.ErrorStatus)
	assert.JSONEq(t, `{
		"tipo": "uso",
		"producto_id": 7,
		"cantidad": 5.25,
		"from_locacion_id": 1,
		"persona_id": null,
		"proveedor_id": null,
		"nota": null
	}`, string(e.Payload))
}

func TestFormSession_BitacoraRegistraErrorRemoto(t *testing.T) {
	audit := &fakeAudit{}
	sub := &fakeSubmitter{err: &domain.APIError{Status: 422, Message: "Stock insuficiente"}}
	s := newAuditedSession(t, sub, audit)

	_, err := s.Update(context.Background(), usoForm("2"))
	require.NoError(t, err)
	s.WaitStock()
	_, err = s.Submit(context.Background())
	require.NoError(t, err)

	entries := audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.OutcomeError, entries[0].Outcome)
	require.NotNil(t, entries[0].ErrorStatus)
	assert.Equal(t, 422, *entries[0].ErrorStatus)
	assert.Equal(t, "Stock insuficiente", entries[0].ErrorMessage)
	assert.Nil(t, entries[0].MovementID)
}

func TestFormSession_BitacoraIgnoraRechazosLocales(t *testing.T) {
	audit := &fakeAudit{}
	s := newAuditedSession(t, &fakeSubmitter{}, audit)

	_, err := s.Update(context.Background(), usoForm("50"))
	require.NoError(t, err)
	s.WaitStock()
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.Empty(t, audit.Entries())
}

func TestFormSession_FalloDeBitacoraNoAfectaEnvio(t *testing.T) {
	audit := &fakeAudit{err: errors.New("db caída")}
	s := newAuditedSession(t, &fakeSubmitter{}, audit)

	_, err := s.Update(context.Background(), usoForm("1"))
	require.NoError(t, err)
	s.WaitStock()
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Accepted())
}

func TestAuditUseCase_Recent(t *testing.T) {
	audit := &fakeAudit{entries: []*entity.SubmissionAudit{
		{ID: "a", UserID: "u-1"},
		{ID: "b", UserID: "u-2"},
	}}
	uc := appinv.NewAuditUseCase(audit)

	list, err := uc.Recent(context.Background(), "u-1", 0, -3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, 20, audit.lastLimit)
	assert.Equal(t, 0, audit.lastOf)

	list, err = uc.Recent(context.Background(), "", 500, 5)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 100, audit.lastLimit)
	assert.Equal(t, 5, audit.lastOf)

	list, err = uc.Recent(context.Background(), "nadie", 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestAuditUseCase_ErrorDelRepositorio(t *testing.T) {
	audit := &fakeAudit{err: errors.New("timeout")}
	_, err := appinv.NewAuditUseCase(audit).Recent(context.Background(), "u-1", 10, 0)
	assert.ErrorContains(t, err, "listar bitácora")
}
