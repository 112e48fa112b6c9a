package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/inventory"
)

func TestClassifySeverity(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int64
		threshold int64
		want      string
	}{
		{"cantidad cero es CRITICAL", 0, 20, entity.SeverityCritical},
		{"bajo la mitad del umbral es VERY_LOW", 8, 20, entity.SeverityVeryLow},
		{"justo la mitad del umbral es LOW", 10, 20, entity.SeverityLow},
		{"bajo el umbral es LOW", 15, 20, entity.SeverityLow},
		{"igual al umbral es NORMAL", 20, 20, entity.SeverityNormal},
		{"sobre el umbral es NORMAL", 25, 20, entity.SeverityNormal},
		{"umbral cero con stock es NORMAL", 3, 0, entity.SeverityNormal},
		{"umbral cero sin stock es CRITICAL", 0, 0, entity.SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.ClassifySeverity(tc.quantity, tc.threshold))
		})
	}
}

func TestAverageDailyConsumption(t *testing.T) {
	assert.InDelta(t, 2.0, inventory.AverageDailyConsumption(60, 30), 0.0001)
	assert.Zero(t, inventory.AverageDailyConsumption(0, 30), "sin ventas no hay consumo")
	assert.Zero(t, inventory.AverageDailyConsumption(60, 0), "ventana inválida")
}

func TestSuggestedReorderQty_ConHistorial(t *testing.T) {
	// consumo 2/día → objetivo ceil(2*30*1.2) = 72; con 10 en stock, pedir 62.
	assert.Equal(t, int64(62), inventory.SuggestedReorderQty(10, 20, 2.0))
	// stock ya cubre el objetivo → 0.
	assert.Equal(t, int64(0), inventory.SuggestedReorderQty(100, 20, 2.0))
	// el ceil redondea hacia arriba: 0.1/día → objetivo ceil(3.6) = 4.
	assert.Equal(t, int64(4), inventory.SuggestedReorderQty(0, 20, 0.1))
}

func TestSuggestedReorderQty_SinHistorial(t *testing.T) {
	// sin consumo: déficit contra el umbral.
	assert.Equal(t, int64(12), inventory.SuggestedReorderQty(8, 20, 0))
	// acotado en cero cuando el stock supera el umbral.
	assert.Equal(t, int64(0), inventory.SuggestedReorderQty(25, 20, 0))
}
