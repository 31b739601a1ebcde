package dto

import "github.com/jhoicas/inventario-movimientos/internal/domain/entity"

// AuditListResponse página de la bitácora de envíos.
type AuditListResponse struct {
	Items []*entity.SubmissionAudit `json:"items"`
	Page  PageResponse              `json:"page"`
}
