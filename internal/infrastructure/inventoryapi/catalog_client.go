package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jhoicas/inventario-movimientos/internal/application/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

var _ catalog.Source = (*Client)(nil)

// ListCatalog GET /api/{tipo}. Acepta un arreglo o {"data": [...]}.
func (c *Client) ListCatalog(ctx context.Context, kind entity.CatalogKind) ([]entity.CatalogItem, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/"+string(kind), nil, nil, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	var items []entity.CatalogItem
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Data []entity.CatalogItem `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, domain.NewAPIError(http.StatusOK, "Catálogo con formato inválido.", err)
		}
		items = wrapped.Data
	} else if err := json.Unmarshal(raw, &items); err != nil {
		return nil, domain.NewAPIError(http.StatusOK, "Catálogo con formato inválido.", err)
	}
	if items == nil {
		items = []entity.CatalogItem{}
	}
	return items, nil
}
