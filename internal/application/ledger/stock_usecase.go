package ledger

import (
	"context"
	"time"

	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

// StockUseCase deriva el stock actual plegando el libro de movimientos.
// Lado de lectura puro: nunca escribe y lee en snapshot repeatable-read.
type StockUseCase struct {
	txRunner TxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner) *StockUseCase {
	return &StockUseCase{txRunner: txRunner}
}

// ComputeStock devuelve el stock del artículo al corte asOf (nil = ahora):
// la suma de los deltas de todos sus movimientos confirmados con timestamp <= asOf.
// Un artículo sin movimientos tiene stock 0. Falla con ErrItemNotFound si el
// artículo no existe y con ErrUntrackedItem si no maneja stock.
func (uc *StockUseCase) ComputeStock(ctx context.Context, itemID string, asOf *time.Time) (*entity.StockSnapshot, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	var snap *entity.StockSnapshot
	err := uc.txRunner.RunSnapshot(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		if !item.Tracked() {
			return domain.ErrUntrackedItem
		}
		qty, err := movRepo.SumDeltas(ctx, itemID, asOf)
		if err != nil {
			return err
		}
		cut := time.Now()
		if asOf != nil {
			cut = *asOf
		}
		snap = &entity.StockSnapshot{ItemID: itemID, Quantity: qty, AsOf: cut}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ComputeStockBatch calcula el stock de varios artículos desde una sola lectura
// consistente: ningún valor del mapa refleja un lote de escritura a medias.
func (uc *StockUseCase) ComputeStockBatch(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	if len(itemIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var result map[string]int64
	err := uc.txRunner.RunSnapshot(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
	) error {
		for _, id := range itemIDs {
			item, err := itemRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrItemNotFound
			}
			if !item.Tracked() {
				return domain.ErrUntrackedItem
			}
		}
		sums, err := movRepo.SumDeltasBatch(ctx, itemIDs)
		if err != nil {
			return err
		}
		// Artículos sin movimientos: stock 0 explícito.
		result = make(map[string]int64, len(itemIDs))
		for _, id := range itemIDs {
			result[id] = sums[id]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
