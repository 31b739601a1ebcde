package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 100
)

// AuditUseCase consulta la bitácora de envíos.
type AuditUseCase struct {
	repo repository.SubmissionAuditRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.SubmissionAuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// Recent lista los envíos más recientes de userID; userID vacío lista los de todos.
func (uc *AuditUseCase) Recent(ctx context.Context, userID string, limit, offset int) ([]*entity.SubmissionAudit, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar bitácora: %w", err)
	}
	if list == nil {
		list = []*entity.SubmissionAudit{}
	}
	return list, nil
}
