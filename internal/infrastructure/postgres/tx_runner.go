package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Las escrituras corren con lock_timeout acotado (los bloqueos de fila por
// artículo no pueden colgar la petición indefinidamente); las lecturas corren
// en una transacción repeatable-read de solo lectura, que da un snapshot
// consistente sin bloquear a los escritores.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int64
}

// NewTxRunner construye el runner. lockTimeoutMS acota la espera por bloqueos
// de fila dentro de las transacciones de escritura (0 = sin límite).
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int64) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción de escritura, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. Los timeouts de bloqueo/cancelación se traducen a
// ErrOperationTimeout; el fallo al abrir la transacción a ErrStorageUnavailable.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeoutMS > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeoutMS)); err != nil {
			return mapStorageErr(err)
		}
	}

	movRepo := NewMovementRepository(tx)
	itemRepo := NewItemRepository(tx)

	if err := fn(movRepo, itemRepo); err != nil {
		return mapStorageErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapStorageErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSnapshot inicia una transacción repeatable-read de solo lectura y ejecuta
// fn con repos atados a ella. Todas las lecturas del callback ven el mismo
// snapshot del libro: nunca un lote de escritura a medias.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("%w: begin read transaction: %v", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	itemRepo := NewItemRepository(tx)

	if err := fn(movRepo, itemRepo); err != nil {
		return mapStorageErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapStorageErr(fmt.Errorf("commit read transaction: %w", err))
	}
	return nil
}
