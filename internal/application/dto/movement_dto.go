package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// RegisterMovementRequest entrada para registrar un movimiento del libro.
// La cantidad siempre es positiva; en los ajustes la dirección indica el signo.
type RegisterMovementRequest struct {
	ItemID    string           `json:"item_id" validate:"required,uuid"`
	Kind      string           `json:"kind" validate:"required,oneof=RECEIPT SALE_DEDUCTION ADJUSTMENT"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	Direction string           `json:"direction" validate:"omitempty,oneof=INCREASE DECREASE"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	DocRef    string           `json:"doc_ref" validate:"omitempty,max=64"`
	Reason    string           `json:"reason" validate:"omitempty,max=500"`
}

// RegisterMovementBatchRequest lote de movimientos a aplicar como una sola
// operación (todo o nada).
type RegisterMovementBatchRequest struct {
	Entries []RegisterMovementRequest `json:"entries" validate:"required,min=1,dive"`
}

// MovementResponse salida de un movimiento confirmado. Quantity es el delta
// con signo ya aplicado al stock.
type MovementResponse struct {
	ID        int64            `json:"id"`
	ItemID    string           `json:"item_id"`
	Kind      string           `json:"kind"`
	Quantity  int64            `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Actor     string           `json:"actor"`
	DocRef    string           `json:"doc_ref,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// MovementListResponse lista paginada de movimientos del historial.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse stock derivado de un artículo al corte as_of.
type StockResponse struct {
	ItemID   string    `json:"item_id"`
	Quantity int64     `json:"quantity"`
	AsOf     time.Time `json:"as_of"`
}

// ShortfallResponse cuerpo de error de stock insuficiente con el detalle del
// faltante, para que el cliente pueda informarlo sin otra consulta.
type ShortfallResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ItemID    string `json:"item_id"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// KindSummaryResponse fila del resumen de movimientos por tipo.
type KindSummaryResponse struct {
	Kind       string `json:"kind"`
	Count      int64  `json:"count"`
	TotalItems int64  `json:"total_items"`
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		Timestamp: m.Timestamp,
		Actor:     m.Actor,
		DocRef:    m.DocRef,
		Reason:    m.Reason,
	}
}
