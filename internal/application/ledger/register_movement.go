package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
	"github.com/copypoint/copypoint-api/pkg/textutil"
)

// RegisterMovementUseCase registra movimientos en el libro de inventario
// (entradas, descuentos por venta y ajustes manuales) de forma transaccional,
// con bloqueo de fila por artículo y verificación de stock dentro del mismo
// scope de sincronización.
type RegisterMovementUseCase struct {
	txRunner TxRunner
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento. Quantity siempre es
// positiva: el servicio deriva el signo del delta a partir de Kind (y de
// Direction en los ajustes); el caller nunca entrega deltas con signo.
type MovementInput struct {
	ItemID    string
	Kind      string           // RECEIPT | SALE_DEDUCTION | ADJUSTMENT
	Quantity  int64            // > 0
	Direction string           // solo ADJUSTMENT: INCREASE | DECREASE
	UnitCost  *decimal.Decimal // opcional, entradas
	DocRef    string           // referencia al documento origen (opcional)
	Reason    string           // obligatorio en ADJUSTMENT
}

// RegisterMovement valida y agrega un único movimiento. Devuelve el movimiento
// confirmado con ID y timestamp asignados por el servidor.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor Actor, in MovementInput) (*entity.Movement, error) {
	movs, err := uc.RegisterMovementBatch(ctx, actor, []MovementInput{in})
	if err != nil {
		return nil, err
	}
	return movs[0], nil
}

// RegisterMovementBatch aplica un lote de entradas (posiblemente de distintos
// artículos) como una sola operación lógica: o todas las validaciones pasan y
// todos los movimientos quedan confirmados, o ninguno (rollback completo).
// Los bloqueos de artículo se toman en orden ascendente de ID para evitar
// deadlocks entre lotes concurrentes.
func (uc *RegisterMovementUseCase) RegisterMovementBatch(ctx context.Context, actor Actor, entries []MovementInput) ([]*entity.Movement, error) {
	if len(entries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i := range entries {
		if err := validateEntry(actor, &entries[i]); err != nil {
			return nil, err
		}
	}

	var movements []*entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
	) error {
		// Bloquear todos los artículos participantes en orden ascendente fijo.
		items, err := lockItems(ctx, itemRepo, entries)
		if err != nil {
			return err
		}

		// Stock actual por artículo, leído bajo el bloqueo.
		stocks := make(map[string]int64, len(items))
		lastTS := make(map[string]time.Time, len(items))
		for id := range items {
			qty, err := movRepo.SumDeltas(ctx, id, nil)
			if err != nil {
				return err
			}
			stocks[id] = qty
			last, err := movRepo.LastTimestamp(ctx, id)
			if err != nil {
				return err
			}
			lastTS[id] = last
		}

		now := time.Now()
		for i := range entries {
			in := &entries[i]
			delta := signedDelta(in)

			newStock := stocks[in.ItemID] + delta
			if newStock < 0 {
				return &domain.InsufficientStockError{
					ItemID:    in.ItemID,
					Requested: -delta,
					Available: stocks[in.ItemID],
				}
			}
			stocks[in.ItemID] = newStock

			// Timestamp monotónico no decreciente por artículo.
			ts := now
			if ts.Before(lastTS[in.ItemID]) {
				ts = lastTS[in.ItemID]
			}
			lastTS[in.ItemID] = ts

			mov := &entity.Movement{
				ItemID:    in.ItemID,
				Kind:      in.Kind,
				Quantity:  delta,
				UnitCost:  in.UnitCost,
				Timestamp: ts,
				Actor:     actor.ID,
				DocRef:    in.DocRef,
				Reason:    in.Reason,
				CreatedAt: now,
			}
			if err := movRepo.Append(ctx, mov); err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// validateEntry valida una entrada antes de abrir la transacción: tipo
// conocido, cantidad positiva, referencia bien formada y, para ajustes,
// motivo obligatorio y actor con privilegio administrativo (falla cerrado).
func validateEntry(actor Actor, in *MovementInput) error {
	if actor.ID == "" {
		return domain.ErrInvalidInput
	}
	if in.ItemID == "" || !entity.ValidKind(in.Kind) || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if !textutil.ValidDocRef(in.DocRef) {
		return domain.ErrInvalidInput
	}
	if in.Kind == entity.MovementKindAdjustment {
		if strings.TrimSpace(in.Reason) == "" {
			return domain.ErrInvalidInput
		}
		if in.Direction != entity.AdjustmentIncrease && in.Direction != entity.AdjustmentDecrease {
			return domain.ErrInvalidInput
		}
		if !actor.Admin {
			return domain.ErrPermissionDenied
		}
	}
	return nil
}

// signedDelta deriva el delta con signo a partir del tipo y la dirección.
func signedDelta(in *MovementInput) int64 {
	switch in.Kind {
	case entity.MovementKindSale:
		return -in.Quantity
	case entity.MovementKindAdjustment:
		if in.Direction == entity.AdjustmentDecrease {
			return -in.Quantity
		}
		return in.Quantity
	default: // RECEIPT
		return in.Quantity
	}
}

// lockItems toma GetForUpdate sobre cada artículo del lote, en orden ascendente
// de ID (orden global acordado), y valida existencia y clasificación TRACKED.
func lockItems(ctx context.Context, itemRepo repository.ItemRepository, entries []MovementInput) (map[string]*entity.Item, error) {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if !seen[entries[i].ItemID] {
			seen[entries[i].ItemID] = true
			ids = append(ids, entries[i].ItemID)
		}
	}
	sort.Strings(ids)

	items := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}
		if !item.Tracked() {
			return nil, domain.ErrUntrackedItem
		}
		items[id] = item
	}
	return items, nil
}
