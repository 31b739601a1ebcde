package entity

import "github.com/shopspring/decimal"

// StockStatus estado de la consulta de stock.
type StockStatus string

const (
	StockStatusIdle    StockStatus = "idle"
	StockStatusLoading StockStatus = "loading"
	StockStatusReady   StockStatus = "ready"
	StockStatusError   StockStatus = "error"
)

// StockSnapshot último estado conocido del stock para un par (producto, ubicación).
// Value es nil cuando el stock no se conoce o no se pudo interpretar.
type StockSnapshot struct {
	Status     StockStatus      `json:"status"`
	ProductoID int64            `json:"productoId,omitempty"`
	LocationID int64            `json:"locationId,omitempty"`
	Value      *decimal.Decimal `json:"value,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// IdleSnapshot snapshot sin producto seleccionado.
func IdleSnapshot() StockSnapshot {
	return StockSnapshot{Status: StockStatusIdle}
}

// ReadySnapshot snapshot resuelto; value puede ser nil si la respuesta no era numérica.
func ReadySnapshot(productoID, locationID int64, value *decimal.Decimal) StockSnapshot {
	return StockSnapshot{Status: StockStatusReady, ProductoID: productoID, LocationID: locationID, Value: value}
}

// Known indica si el snapshot tiene un valor numérico utilizable.
func (s StockSnapshot) Known() bool {
	return s.Status == StockStatusReady && s.Value != nil
}
