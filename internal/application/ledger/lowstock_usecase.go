package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/inventory"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

// LowStockUseCase clasifica el stock de todos los artículos TRACKED contra su
// punto de reorden y sugiere cantidades de pedido. Lado de lectura puro:
// nunca agrega movimientos.
type LowStockUseCase struct {
	txRunner   TxRunner
	windowDays int // ventana del consumo promedio (por defecto 30 días)
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(txRunner TxRunner, windowDays int) *LowStockUseCase {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &LowStockUseCase{txRunner: txRunner, windowDays: windowDays}
}

// EvaluateLowStock evalúa todos los artículos TRACKED (opcionalmente filtrados
// por categoría) desde una sola lectura consistente. Las entradas se ordenan
// por severidad (CRITICAL primero) y luego por mayor déficit relativo.
func (uc *LowStockUseCase) EvaluateLowStock(ctx context.Context, category string) ([]entity.LowStockEntry, error) {
	var entries []entity.LowStockEntry
	err := uc.txRunner.RunSnapshot(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
	) error {
		items, err := itemRepo.ListTracked(ctx, category)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			entries = []entity.LowStockEntry{}
			return nil
		}
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		stocks, err := movRepo.SumDeltasBatch(ctx, ids)
		if err != nil {
			return err
		}
		since := time.Now().AddDate(0, 0, -uc.windowDays)
		consumption, err := movRepo.ConsumptionSince(ctx, ids, since)
		if err != nil {
			return err
		}

		entries = make([]entity.LowStockEntry, 0, len(items))
		for _, it := range items {
			qty := stocks[it.ID]
			avgDaily := inventory.AverageDailyConsumption(consumption[it.ID], uc.windowDays)
			entries = append(entries, entity.LowStockEntry{
				ItemID:              it.ID,
				SKU:                 it.SKU,
				Name:                it.Name,
				Category:            it.Category,
				Quantity:            qty,
				ReorderThreshold:    it.ReorderThreshold,
				Severity:            inventory.ClassifySeverity(qty, it.ReorderThreshold),
				SuggestedReorderQty: inventory.SuggestedReorderQty(qty, it.ReorderThreshold, avgDaily),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Severity != b.Severity {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		// Desempate: mayor déficit absoluto contra el umbral.
		return a.ReorderThreshold-a.Quantity > b.ReorderThreshold-b.Quantity
	})
	return entries, nil
}

func severityRank(s string) int {
	switch s {
	case entity.SeverityCritical:
		return 3
	case entity.SeverityVeryLow:
		return 2
	case entity.SeverityLow:
		return 1
	default:
		return 0
	}
}
