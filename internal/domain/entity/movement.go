package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementKindReceipt    = "RECEIPT"        // entrada de mercancía
	MovementKindSale       = "SALE_DEDUCTION" // descuento por venta
	MovementKindAdjustment = "ADJUSTMENT"     // ajuste manual (requiere motivo y admin)
)

// Dirección de un ajuste: el caller entrega cantidad sin signo más la dirección;
// el servicio deriva el delta con signo.
const (
	AdjustmentIncrease = "INCREASE"
	AdjustmentDecrease = "DECREASE"
)

// ValidKind verifica que el tipo de movimiento sea uno de los conocidos.
func ValidKind(kind string) bool {
	switch kind {
	case MovementKindReceipt, MovementKindSale, MovementKindAdjustment:
		return true
	}
	return false
}

// Movement es un registro inmutable del libro de movimientos: una vez
// confirmado nunca se actualiza ni se borra; las correcciones son nuevos
// movimientos compensatorios.
type Movement struct {
	ID        int64            // identificador autoincremental (desempate en el orden)
	ItemID    string
	Kind      string
	Quantity  int64            // delta con signo: positivo entrada/ajuste+, negativo venta/ajuste-
	UnitCost  *decimal.Decimal // costo unitario opcional (entradas)
	Timestamp time.Time        // asignado por el servidor, monotónico por artículo
	Actor     string           // quién lo registró
	DocRef    string           // referencia al documento origen (venta, lote, código de motivo)
	Reason    string           // texto libre, obligatorio en ajustes
	CreatedAt time.Time
}
