package repository

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// SubmissionAuditRepository define el puerto de persistencia para la bitácora de envíos.
type SubmissionAuditRepository interface {
	Create(ctx context.Context, audit *entity.SubmissionAudit) error
	// ListByUser userID vacío lista todos los usuarios.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SubmissionAudit, error)
}
