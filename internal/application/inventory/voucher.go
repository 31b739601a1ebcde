package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// Voucher datos del comprobante imprimible de un movimiento registrado.
type Voucher struct {
	Movement     entity.CreatedMovement
	Confirmation Confirmation
	IssuedAt     time.Time
	IssuedBy     string
}

// VoucherGenerator renderiza el comprobante (PDF).
type VoucherGenerator interface {
	GenerateVoucher(ctx context.Context, v Voucher) ([]byte, error)
}

// VoucherUseCase genera el comprobante del último movimiento registrado en una sesión.
type VoucherUseCase struct {
	generator     VoucherGenerator
	confirmations *ConfirmationBuilder
	now           func() time.Time
}

// NewVoucherUseCase now nil usa time.Now.
func NewVoucherUseCase(generator VoucherGenerator, confirmations *ConfirmationBuilder, now func() time.Time) *VoucherUseCase {
	if now == nil {
		now = time.Now
	}
	if confirmations == nil {
		confirmations = NewConfirmationBuilder(nil)
	}
	return &VoucherUseCase{generator: generator, confirmations: confirmations, now: now}
}

// ForSession devuelve (pdf, nombre de archivo). domain.ErrNotFound si la sesión aún no registró movimientos.
func (uc *VoucherUseCase) ForSession(ctx context.Context, view SessionView, issuedBy string) ([]byte, string, error) {
	if view.Created == nil {
		return nil, "", domain.ErrNotFound
	}
	conf := uc.confirmations.Build(*view.Created)
	if view.Confirmation != nil {
		conf = *view.Confirmation
	}
	data, err := uc.generator.GenerateVoucher(ctx, Voucher{
		Movement:     *view.Created,
		Confirmation: conf,
		IssuedAt:     uc.now(),
		IssuedBy:     issuedBy,
	})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: %w", err)
	}
	return data, fmt.Sprintf("movimiento-%d.pdf", view.Created.ID), nil
}
