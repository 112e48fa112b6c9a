package ledger

import (
	"context"

	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del libro:
// el bloqueo por artículo, el recálculo de stock y el append viven en el mismo
// scope transaccional.
type TxRunner interface {
	// Run transacción de escritura (read-write).
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
	) error) error
	// RunSnapshot transacción de solo lectura con aislamiento repeatable-read:
	// ninguna lectura observa un lote a medio aplicar.
	RunSnapshot(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// Actor identidad de quien ejecuta la operación. Admin viene del contexto
// autenticado del caller; el servicio falla cerrado si no está presente.
type Actor struct {
	ID    string
	Admin bool
}
