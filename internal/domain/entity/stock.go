package entity

import "time"

// StockSnapshot es el stock derivado de un artículo: la suma de los deltas de
// todos sus movimientos confirmados hasta AsOf. Valor derivado, nunca fuente
// de verdad; se recalcula en cada lectura.
type StockSnapshot struct {
	ItemID   string
	Quantity int64
	AsOf     time.Time
}

// Severidad de stock bajo respecto al punto de reorden.
const (
	SeverityNormal   = "NORMAL"
	SeverityLow      = "LOW"
	SeverityVeryLow  = "VERY_LOW"
	SeverityCritical = "CRITICAL"
)

// LowStockEntry es la clasificación derivada de un artículo TRACKED contra su
// punto de reorden, con la cantidad de pedido sugerida.
type LowStockEntry struct {
	ItemID              string
	SKU                 string
	Name                string
	Category            string
	Quantity            int64
	ReorderThreshold    int64
	Severity            string
	SuggestedReorderQty int64
}
