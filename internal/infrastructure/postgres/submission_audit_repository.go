package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.SubmissionAuditRepository = (*SubmissionAuditRepo)(nil)

// Querier lo comparten *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SubmissionAuditRepo implementación sobre PostgreSQL.
type SubmissionAuditRepo struct {
	q Querier
}

// NewSubmissionAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubmissionAuditRepository(q Querier) *SubmissionAuditRepo {
	return &SubmissionAuditRepo{q: q}
}

// Create persiste un registro de bitácora. Reinsertar un id ya guardado no es error.
func (r *SubmissionAuditRepo) Create(ctx context.Context, a *entity.SubmissionAudit) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO submission_audit (id, session_id, user_id, tipo, producto_id, cantidad, payload,
			outcome, movement_id, error_status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var errMsg *string
	if a.ErrorMessage != "" {
		errMsg = &a.ErrorMessage
	}
	_, err := r.q.Exec(ctx, query,
		a.ID, a.SessionID, a.UserID, string(a.Tipo), a.ProductoID, a.Cantidad, []byte(a.Payload),
		string(a.Outcome), a.MovementID, a.ErrorStatus, errMsg, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create submission audit: %w", err)
	}
	return nil
}

// ListByUser lista los envíos más recientes primero.
func (r *SubmissionAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SubmissionAudit, error) {
	query := `
		SELECT id, session_id, user_id, tipo, producto_id, cantidad, payload,
			outcome, movement_id, error_status, error_message, created_at
		FROM submission_audit
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list submission audit: %w", err)
	}
	defer rows.Close()

	var list []*entity.SubmissionAudit
	for rows.Next() {
		var a entity.SubmissionAudit
		var tipo, outcome string
		var payload []byte
		var errMsg *string
		if err := rows.Scan(
			&a.ID, &a.SessionID, &a.UserID, &tipo, &a.ProductoID, &a.Cantidad, &payload,
			&outcome, &a.MovementID, &a.ErrorStatus, &errMsg, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission audit: %w", err)
		}
		a.Tipo = entity.MovementType(tipo)
		a.Outcome = entity.SubmissionOutcome(outcome)
		a.Payload = payload
		if errMsg != nil {
			a.ErrorMessage = *errMsg
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
