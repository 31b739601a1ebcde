package inventoryapi

import (
	"context"
	"net/http"

	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

var _ appinv.MovementSubmitter = (*Client)(nil)

// CreateMovement POST /api/movimientos con el payload canónico.
func (c *Client) CreateMovement(ctx context.Context, payload entity.MovementPayload) (*entity.CreatedMovement, error) {
	var out entity.CreatedMovement
	if err := c.do(ctx, http.MethodPost, "/api/movimientos", nil, payload, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
