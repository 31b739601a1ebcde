package inventoryapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
)

var _ appinv.StockLookup = (*Client)(nil)

type stockResponse struct {
	Stock json.RawMessage `json:"stock"`
}

// GetStock GET /api/stock?producto_id=&locacion_id=. Devuelve el valor crudo: número o texto con formato local.
func (c *Client) GetStock(ctx context.Context, productoID, locationID int64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("producto_id", strconv.FormatInt(productoID, 10))
	q.Set("locacion_id", strconv.FormatInt(locationID, 10))

	var out stockResponse
	if err := c.do(ctx, http.MethodGet, "/api/stock", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Stock, nil
}
