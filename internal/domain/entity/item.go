package entity

import "time"

// Clasificación de artículos: solo los TRACKED participan en el cálculo de stock.
// Los UNTRACKED (servicios, ej. fotocopias) nunca aparecen en el libro de movimientos.
const (
	ClassificationTracked   = "TRACKED"
	ClassificationUntracked = "UNTRACKED"
)

// Item representa un artículo del catálogo. El SKU es único y sirve también
// como código escaneable. Se crea/edita desde la gestión de catálogo; el libro
// de movimientos lo consume en modo solo lectura.
type Item struct {
	ID               string
	SKU              string // código único, usable como código de barras
	Name             string
	Classification   string // TRACKED | UNTRACKED
	Category         string
	ReorderThreshold int64 // punto de reorden (>= 0)
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Tracked indica si el artículo maneja stock.
func (i *Item) Tracked() bool {
	return i.Classification == ClassificationTracked
}
