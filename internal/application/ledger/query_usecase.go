package ledger

import (
	"context"
	"time"

	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
	"github.com/copypoint/copypoint-api/pkg/textutil"
)

// QueryConfig límites de la consulta de historial.
type QueryConfig struct {
	MaxSpanDays  int // ancho máximo del rango de fechas (por defecto un año)
	DefaultLimit int
	MaxLimit     int
}

func (c *QueryConfig) defaults() {
	if c.MaxSpanDays <= 0 {
		c.MaxSpanDays = 365
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 100
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 1000
	}
}

// MovementQueryUseCase acceso de solo lectura y filtrable al historial del
// libro (lado de consulta del CQRS). No emite escrituras y nunca bloquea un
// registro concurrente más allá de la duración del snapshot.
type MovementQueryUseCase struct {
	txRunner TxRunner
	cfg      QueryConfig
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(txRunner TxRunner, cfg QueryConfig) *MovementQueryUseCase {
	cfg.defaults()
	return &MovementQueryUseCase{txRunner: txRunner, cfg: cfg}
}

// QueryFilter filtros combinables del historial. From/To inclusivos.
type QueryFilter struct {
	ItemID      string
	From        *time.Time
	To          *time.Time
	Kind        string
	DocRef      string // se sanea a alfanumérico antes de consultar
	DocRefExact bool
	Limit       int
	Offset      int
}

// QueryMovements devuelve los movimientos que cumplen el filtro, ordenados por
// (timestamp ASC, id ASC) — el desempate por id garantiza orden determinista
// cuando varios movimientos comparten timestamp. La paginación limit/offset
// hace la secuencia finita y reiniciable.
func (uc *MovementQueryUseCase) QueryMovements(ctx context.Context, f QueryFilter) ([]*entity.Movement, error) {
	repoFilter, err := uc.toRepoFilter(f)
	if err != nil {
		return nil, err
	}
	var movs []*entity.Movement
	err = uc.txRunner.RunSnapshot(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ItemRepository,
	) error {
		var err error
		movs, err = movRepo.List(ctx, repoFilter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movs, nil
}

// MovementSummary resumen por tipo (conteo y unidades absolutas) en un rango.
// El rango está sujeto al mismo límite de ancho que QueryMovements.
func (uc *MovementQueryUseCase) MovementSummary(ctx context.Context, from, to *time.Time) ([]repository.KindSummary, error) {
	if err := uc.checkSpan(from, to); err != nil {
		return nil, err
	}
	var rows []repository.KindSummary
	err := uc.txRunner.RunSnapshot(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ItemRepository,
	) error {
		var err error
		rows, err = movRepo.Summary(ctx, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (uc *MovementQueryUseCase) toRepoFilter(f QueryFilter) (repository.MovementFilter, error) {
	if err := uc.checkSpan(f.From, f.To); err != nil {
		return repository.MovementFilter{}, err
	}
	if f.Kind != "" && !entity.ValidKind(f.Kind) {
		return repository.MovementFilter{}, domain.ErrInvalidInput
	}
	limit := f.Limit
	if limit <= 0 {
		limit = uc.cfg.DefaultLimit
	}
	if limit > uc.cfg.MaxLimit {
		limit = uc.cfg.MaxLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	return repository.MovementFilter{
		ItemID:      f.ItemID,
		From:        f.From,
		To:          f.To,
		Kind:        f.Kind,
		DocRef:      textutil.SanitizeAlnum(f.DocRef),
		DocRefExact: f.DocRefExact,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// checkSpan valida el ancho del rango: inicio <= fin y a lo sumo MaxSpanDays.
func (uc *MovementQueryUseCase) checkSpan(from, to *time.Time) error {
	if from == nil || to == nil {
		return nil
	}
	if to.Before(*from) {
		return domain.ErrInvalidInput
	}
	if to.After(from.AddDate(0, 0, uc.cfg.MaxSpanDays)) {
		return domain.ErrFilterRangeExceeded
	}
	return nil
}
