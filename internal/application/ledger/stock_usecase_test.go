package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

func TestComputeStock_SinMovimientosEsCero(t *testing.T) {
	store, _, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)

	snap, err := stock.ComputeStock(context.Background(), itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Quantity)
}

func TestComputeStock_LecturaIdempotente(t *testing.T) {
	store, register, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 42,
	})
	require.NoError(t, err)

	first, err := stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	second, err := stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Quantity, second.Quantity, "leer no muta el libro")
}

func TestComputeStock_CorteHistorico(t *testing.T) {
	store, _, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.seedMovement(itemID, entity.MovementKindReceipt, 100, base, "OC-001")
	store.seedMovement(itemID, entity.MovementKindSale, -30, base.Add(24*time.Hour), "VTA-001")
	store.seedMovement(itemID, entity.MovementKindSale, -20, base.Add(48*time.Hour), "VTA-002")

	// Corte entre la primera y la segunda venta: solo cuenta lo anterior.
	cut := base.Add(30 * time.Hour)
	snap, err := stock.ComputeStock(ctx, itemID, &cut)
	require.NoError(t, err)
	assert.Equal(t, int64(70), snap.Quantity)
	assert.True(t, snap.AsOf.Equal(cut))

	// Corte inclusivo: un movimiento exactamente en asOf se cuenta.
	cut = base.Add(48 * time.Hour)
	snap, err = stock.ComputeStock(ctx, itemID, &cut)
	require.NoError(t, err)
	assert.Equal(t, int64(50), snap.Quantity)

	// Sin corte: estado actual.
	snap, err = stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(50), snap.Quantity)
}

func TestComputeStock_ErroresDeDominio(t *testing.T) {
	store, _, stock := newTestEnv()
	servicioID := store.addItemClassified("SRV-001", "Impresión B/N", "servicios", entity.ClassificationUntracked, 0)
	ctx := context.Background()

	_, err := stock.ComputeStock(ctx, "no-existe", nil)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = stock.ComputeStock(ctx, servicioID, nil)
	assert.ErrorIs(t, err, domain.ErrUntrackedItem)

	_, err = stock.ComputeStock(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeStockBatch_LecturaConsistente(t *testing.T) {
	store, register, stock := newTestEnv()
	papelID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	tintaID := store.addItem("TIN-001", "Cartucho tinta negra", "insumos", 5)
	sobresID := store.addItem("SOB-001", "Sobres manila", "papeleria", 10)
	ctx := context.Background()

	_, err := register.RegisterMovementBatch(ctx, bodeguero, []ledger.MovementInput{
		{ItemID: papelID, Kind: entity.MovementKindReceipt, Quantity: 50},
		{ItemID: tintaID, Kind: entity.MovementKindReceipt, Quantity: 8},
	})
	require.NoError(t, err)

	stocks, err := stock.ComputeStockBatch(ctx, []string{papelID, tintaID, sobresID})
	require.NoError(t, err)
	assert.Equal(t, int64(50), stocks[papelID])
	assert.Equal(t, int64(8), stocks[tintaID])
	qty, ok := stocks[sobresID]
	assert.True(t, ok, "un artículo sin movimientos aparece con cero explícito")
	assert.Equal(t, int64(0), qty)

	_, err = stock.ComputeStockBatch(ctx, []string{papelID, "no-existe"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = stock.ComputeStockBatch(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
