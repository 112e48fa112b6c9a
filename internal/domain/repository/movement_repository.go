package repository

import (
	"context"
	"time"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// MovementFilter filtros combinables para consultar el historial del libro.
// From/To son inclusivos. DocRef ya viene saneado (alfanumérico) por el caso de uso.
type MovementFilter struct {
	ItemID      string
	From        *time.Time
	To          *time.Time
	Kind        string
	DocRef      string
	DocRefExact bool // true = igualdad exacta; false = prefijo
	Limit       int
	Offset      int
}

// KindSummary conteo y total de unidades (valor absoluto) por tipo de movimiento.
type KindSummary struct {
	Kind       string
	Count      int64
	TotalItems int64
}

// MovementRepository puerto de persistencia del libro de movimientos.
// El libro es append-only: no existen Update ni Delete.
type MovementRepository interface {
	// Append persiste el movimiento y asigna su ID autoincremental.
	Append(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	// List devuelve movimientos ordenados por (timestamp ASC, id ASC).
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
	// SumDeltas suma los deltas de un artículo hasta asOf (nil = ahora).
	SumDeltas(ctx context.Context, itemID string, asOf *time.Time) (int64, error)
	// SumDeltasBatch suma los deltas de varios artículos en una sola lectura.
	SumDeltasBatch(ctx context.Context, itemIDs []string) (map[string]int64, error)
	// LastTimestamp devuelve el timestamp del último movimiento del artículo
	// (cero si no tiene movimientos). Se usa para el orden monotónico por artículo.
	LastTimestamp(ctx context.Context, itemID string) (time.Time, error)
	// ConsumptionSince total vendido (valor absoluto de deltas VENTA) por artículo desde since.
	ConsumptionSince(ctx context.Context, itemIDs []string, since time.Time) (map[string]int64, error)
	// Summary resumen por tipo de movimiento en un rango de fechas.
	Summary(ctx context.Context, from, to *time.Time) ([]KindSummary, error)
}
