package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

func newTestEnv() (*memStore, *ledger.RegisterMovementUseCase, *ledger.StockUseCase) {
	store := newMemStore()
	runner := &memTxRunner{store: store}
	return store, ledger.NewRegisterMovementUseCase(runner), ledger.NewStockUseCase(runner)
}

var (
	bodeguero = ledger.Actor{ID: "user-bodega"}
	admin     = ledger.Actor{ID: "user-admin", Admin: true}
)

func TestRegisterMovement_EntradaInicial(t *testing.T) {
	store, register, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)

	mov, err := register.RegisterMovement(context.Background(), bodeguero, ledger.MovementInput{
		ItemID:   itemID,
		Kind:     entity.MovementKindReceipt,
		Quantity: 100,
		DocRef:   "OC-2026-001",
	})
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.NotZero(t, mov.ID)
	assert.Equal(t, int64(100), mov.Quantity)
	assert.False(t, mov.Timestamp.IsZero())
	assert.Equal(t, bodeguero.ID, mov.Actor)

	snap, err := stock.ComputeStock(context.Background(), itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), snap.Quantity)
}

func TestRegisterMovement_VentaYStockInsuficiente(t *testing.T) {
	store, register, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 100,
	})
	require.NoError(t, err)

	// Venta dentro del stock disponible.
	_, err = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 30, DocRef: "VTA-001",
	})
	require.NoError(t, err)

	snap, err := stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(70), snap.Quantity)

	// Venta que excede el disponible: se rechaza sin tocar el libro.
	_, err = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 80, DocRef: "VTA-002",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortfall *domain.InsufficientStockError
	require.True(t, errors.As(err, &shortfall))
	assert.Equal(t, itemID, shortfall.ItemID)
	assert.Equal(t, int64(80), shortfall.Requested)
	assert.Equal(t, int64(70), shortfall.Available)

	snap, err = stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(70), snap.Quantity, "el rechazo no debe dejar rastro en el libro")
}

func TestRegisterMovement_Ajuste(t *testing.T) {
	store, register, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 70,
	})
	require.NoError(t, err)

	// Sin motivo: rechazado.
	_, err = register.RegisterMovement(ctx, admin, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindAdjustment,
		Quantity: 5, Direction: entity.AdjustmentDecrease,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin privilegio administrativo: rechazado aun con motivo.
	_, err = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindAdjustment,
		Quantity: 5, Direction: entity.AdjustmentDecrease, Reason: "conteo físico",
	})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// Ajuste negativo válido.
	mov, err := register.RegisterMovement(ctx, admin, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindAdjustment,
		Quantity: 5, Direction: entity.AdjustmentDecrease, Reason: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), mov.Quantity)

	// Ajuste positivo válido.
	mov, err = register.RegisterMovement(ctx, admin, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindAdjustment,
		Quantity: 3, Direction: entity.AdjustmentIncrease, Reason: "devolución proveedor",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mov.Quantity)

	snap, err := stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(68), snap.Quantity)
}

func TestRegisterMovement_AjusteNoDejaStockNegativo(t *testing.T) {
	store, register, _ := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 4,
	})
	require.NoError(t, err)

	_, err = register.RegisterMovement(ctx, admin, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindAdjustment,
		Quantity: 10, Direction: entity.AdjustmentDecrease, Reason: "merma",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterMovement_ArticuloInexistenteYNoInventariable(t *testing.T) {
	store, register, _ := newTestEnv()
	servicioID := store.addItemClassified("SRV-001", "Impresión B/N", "servicios", entity.ClassificationUntracked, 0)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: "no-existe", Kind: entity.MovementKindReceipt, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: servicioID, Kind: entity.MovementKindReceipt, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrUntrackedItem)
}

func TestRegisterMovement_EntradasInvalidas(t *testing.T) {
	store, register, _ := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor ledger.Actor
		in    ledger.MovementInput
	}{
		{"cantidad cero", bodeguero, ledger.MovementInput{ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 0}},
		{"cantidad negativa", bodeguero, ledger.MovementInput{ItemID: itemID, Kind: entity.MovementKindSale, Quantity: -3}},
		{"tipo desconocido", bodeguero, ledger.MovementInput{ItemID: itemID, Kind: "TRANSFER", Quantity: 1}},
		{"docref malformada", bodeguero, ledger.MovementInput{ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 1, DocRef: "OC 001!"}},
		{"actor vacío", ledger.Actor{}, ledger.MovementInput{ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 1}},
		{"ajuste sin dirección", admin, ledger.MovementInput{ItemID: itemID, Kind: entity.MovementKindAdjustment, Quantity: 1, Reason: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := register.RegisterMovement(ctx, tc.actor, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterMovementBatch_TodoONada(t *testing.T) {
	store, register, stock := newTestEnv()
	papelID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	tintaID := store.addItem("TIN-001", "Cartucho tinta negra", "insumos", 5)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: papelID, Kind: entity.MovementKindReceipt, Quantity: 50,
	})
	require.NoError(t, err)
	_, err = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: tintaID, Kind: entity.MovementKindReceipt, Quantity: 2,
	})
	require.NoError(t, err)

	// La segunda línea excede el stock de tinta: nada del lote debe persistir.
	_, err = register.RegisterMovementBatch(ctx, bodeguero, []ledger.MovementInput{
		{ItemID: papelID, Kind: entity.MovementKindSale, Quantity: 10, DocRef: "VTA-010"},
		{ItemID: tintaID, Kind: entity.MovementKindSale, Quantity: 3, DocRef: "VTA-010"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stocks, err := stock.ComputeStockBatch(ctx, []string{papelID, tintaID})
	require.NoError(t, err)
	assert.Equal(t, int64(50), stocks[papelID], "la línea válida del lote también debe revertirse")
	assert.Equal(t, int64(2), stocks[tintaID])

	// El mismo lote con cantidades cubiertas se aplica completo.
	movs, err := register.RegisterMovementBatch(ctx, bodeguero, []ledger.MovementInput{
		{ItemID: papelID, Kind: entity.MovementKindSale, Quantity: 10, DocRef: "VTA-011"},
		{ItemID: tintaID, Kind: entity.MovementKindSale, Quantity: 2, DocRef: "VTA-011"},
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)

	stocks, err = stock.ComputeStockBatch(ctx, []string{papelID, tintaID})
	require.NoError(t, err)
	assert.Equal(t, int64(40), stocks[papelID])
	assert.Equal(t, int64(0), stocks[tintaID])
}

func TestRegisterMovementBatch_MultiplesLineasMismoArticulo(t *testing.T) {
	store, register, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 10,
	})
	require.NoError(t, err)

	// 6 + 6 excede 10 aunque cada línea por separado alcance: el chequeo debe
	// acumular los deltas del propio lote.
	_, err = register.RegisterMovementBatch(ctx, bodeguero, []ledger.MovementInput{
		{ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 6},
		{ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 6},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	snap, err := stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), snap.Quantity)
}

func TestRegisterMovement_VentasConcurrentes(t *testing.T) {
	store, register, stock := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	_, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindReceipt, Quantity: 100,
	})
	require.NoError(t, err)

	// Dos ventas de 60 contra stock 100: exactamente una debe pasar.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
				ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 60,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	snap, err := stock.ComputeStock(ctx, itemID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), snap.Quantity)
}

func TestRegisterMovement_TimestampsMonotonosPorArticulo(t *testing.T) {
	store, register, _ := newTestEnv()
	itemID := store.addItem("PAP-001", "Resma papel carta", "papeleria", 20)
	ctx := context.Background()

	// Un movimiento sembrado con timestamp futuro: los siguientes no pueden
	// quedar antes que él.
	future := time.Now().Add(time.Hour)
	store.seedMovement(itemID, entity.MovementKindReceipt, 100, future, "")

	mov, err := register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
		ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 10,
	})
	require.NoError(t, err)
	assert.False(t, mov.Timestamp.Before(future), "el timestamp asignado no puede retroceder respecto al último del artículo")

	prev := mov.Timestamp
	var prevID int64 = mov.ID
	for i := 0; i < 5; i++ {
		mov, err = register.RegisterMovement(ctx, bodeguero, ledger.MovementInput{
			ItemID: itemID, Kind: entity.MovementKindSale, Quantity: 1,
		})
		require.NoError(t, err)
		assert.False(t, mov.Timestamp.Before(prev))
		assert.Greater(t, mov.ID, prevID, "los IDs asignados crecen con el orden de confirmación")
		prev = mov.Timestamp
		prevID = mov.ID
	}
}

func TestRegisterMovementBatch_LoteVacio(t *testing.T) {
	_, register, _ := newTestEnv()
	_, err := register.RegisterMovementBatch(context.Background(), bodeguero, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
