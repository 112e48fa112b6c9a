package inventory

import (
	"math"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// Cobertura objetivo de la sugerencia de pedido: 30 días de consumo promedio
// con 20% de colchón.
const (
	coverageDays   = 30
	coverageBuffer = 1.2
)

// ClassifySeverity clasifica el stock actual contra el punto de reorden.
// CRITICAL si la cantidad es exactamente 0; VERY_LOW si está por debajo de la
// mitad del umbral; LOW si está por debajo del umbral; NORMAL en otro caso.
func ClassifySeverity(quantity, threshold int64) string {
	switch {
	case quantity == 0:
		return entity.SeverityCritical
	case quantity*2 < threshold:
		return entity.SeverityVeryLow
	case quantity < threshold:
		return entity.SeverityLow
	default:
		return entity.SeverityNormal
	}
}

// AverageDailyConsumption deriva el consumo diario promedio a partir del total
// vendido (valor absoluto de los deltas de venta) en una ventana de días.
func AverageDailyConsumption(totalSold int64, windowDays int) float64 {
	if windowDays <= 0 || totalSold <= 0 {
		return 0
	}
	return float64(totalSold) / float64(windowDays)
}

// SuggestedReorderQty calcula la cantidad sugerida de pedido:
// max(0, ceil(consumoDiario * 30 * 1.2) - cantidad). Sin historial de consumo,
// cae al déficit contra el umbral (threshold - cantidad, acotado en 0).
func SuggestedReorderQty(quantity, threshold int64, avgDaily float64) int64 {
	if avgDaily > 0 {
		target := int64(math.Ceil(avgDaily * coverageDays * coverageBuffer))
		if target > quantity {
			return target - quantity
		}
		return 0
	}
	if threshold > quantity {
		return threshold - quantity
	}
	return 0
}
