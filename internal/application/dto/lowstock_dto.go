package dto

import "github.com/copypoint/copypoint-api/internal/domain/entity"

// LowStockEntryResponse fila de la evaluación de stock bajo.
type LowStockEntryResponse struct {
	ItemID              string `json:"item_id"`
	SKU                 string `json:"sku"`
	Name                string `json:"name"`
	Category            string `json:"category,omitempty"`
	Quantity            int64  `json:"quantity"`
	ReorderThreshold    int64  `json:"reorder_threshold"`
	Severity            string `json:"severity"`
	SuggestedReorderQty int64  `json:"suggested_reorder_qty"`
}

// LowStockResponse evaluación completa, ordenada de más a menos severa.
type LowStockResponse struct {
	Items []LowStockEntryResponse `json:"items"`
}

// ToLowStockEntryResponse mapea la entrada de dominio al DTO de salida.
func ToLowStockEntryResponse(e entity.LowStockEntry) LowStockEntryResponse {
	return LowStockEntryResponse{
		ItemID:              e.ItemID,
		SKU:                 e.SKU,
		Name:                e.Name,
		Category:            e.Category,
		Quantity:            e.Quantity,
		ReorderThreshold:    e.ReorderThreshold,
		Severity:            e.Severity,
		SuggestedReorderQty: e.SuggestedReorderQty,
	}
}
