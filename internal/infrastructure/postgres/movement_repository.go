package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// docRefNorm expresión que normaliza doc_ref a minúsculas alfanuméricas, igual
// que el saneo del filtro en el caso de uso. Permite buscar "VTA-2026-001"
// con el término "vta2026".
const docRefNorm = "regexp_replace(lower(doc_ref), '[^a-z0-9]', '', 'g')"

const movementColumns = "id, item_id, kind, quantity, unit_cost, ts, actor, doc_ref, reason, created_at"

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste un movimiento y asigna su ID autoincremental.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (item_id, kind, quantity, unit_cost, ts, actor, doc_ref, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ItemID, m.Kind, m.Quantity, m.UnitCost, m.Timestamp, m.Actor, m.DocRef, m.Reason, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve los movimientos que cumplen el filtro, ordenados por
// (ts ASC, id ASC): el desempate por id hace el orden determinista cuando
// varios movimientos comparten timestamp.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	var args []any
	pos := 1
	if f.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, f.ItemID)
		pos++
	}
	if f.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, f.Kind)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND ts >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND ts <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.DocRef != "" {
		if f.DocRefExact {
			query += fmt.Sprintf(" AND %s = $%d", docRefNorm, pos)
			args = append(args, f.DocRef)
		} else {
			query += fmt.Sprintf(" AND %s LIKE $%d || '%%'", docRefNorm, pos)
			args = append(args, f.DocRef)
		}
		pos++
	}
	query += fmt.Sprintf(" ORDER BY ts ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumDeltas suma los deltas del artículo hasta asOf inclusive (nil = todo el libro).
func (r *MovementRepo) SumDeltas(ctx context.Context, itemID string, asOf *time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE item_id = $1`
	args := []any{itemID}
	if asOf != nil {
		query += ` AND ts <= $2`
		args = append(args, *asOf)
	}
	var sum int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

// SumDeltasBatch suma los deltas de varios artículos en una sola consulta.
// Los artículos sin movimientos no aparecen en el mapa.
func (r *MovementRepo) SumDeltasBatch(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	query := `
		SELECT item_id, COALESCE(SUM(quantity), 0)
		FROM movements WHERE item_id = ANY($1)
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("sum deltas batch: %w", err)
	}
	defer rows.Close()
	sums := make(map[string]int64, len(itemIDs))
	for rows.Next() {
		var id string
		var sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		sums[id] = sum
	}
	return sums, rows.Err()
}

// LastTimestamp devuelve el ts del último movimiento del artículo (cero si no tiene).
func (r *MovementRepo) LastTimestamp(ctx context.Context, itemID string) (time.Time, error) {
	var last *time.Time
	query := `SELECT MAX(ts) FROM movements WHERE item_id = $1`
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("last timestamp: %w", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// ConsumptionSince total vendido (valor absoluto de los deltas VENTA) por
// artículo desde since.
func (r *MovementRepo) ConsumptionSince(ctx context.Context, itemIDs []string, since time.Time) (map[string]int64, error) {
	query := `
		SELECT item_id, COALESCE(SUM(-quantity), 0)
		FROM movements
		WHERE item_id = ANY($1) AND kind = $2 AND ts >= $3
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, itemIDs, entity.MovementKindSale, since)
	if err != nil {
		return nil, fmt.Errorf("consumption since: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var total int64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		out[id] = total
	}
	return out, rows.Err()
}

// Summary conteo y unidades absolutas por tipo de movimiento en un rango.
func (r *MovementRepo) Summary(ctx context.Context, from, to *time.Time) ([]repository.KindSummary, error) {
	query := `SELECT kind, COUNT(*), COALESCE(SUM(ABS(quantity)), 0) FROM movements WHERE 1=1`
	var args []any
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND ts >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND ts <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " GROUP BY kind ORDER BY kind"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("movement summary: %w", err)
	}
	defer rows.Close()
	var out []repository.KindSummary
	for rows.Next() {
		var s repository.KindSummary
		if err := rows.Scan(&s.Kind, &s.Count, &s.TotalItems); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// scanMovement escanea una fila con movementColumns.
func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	if err := row.Scan(
		&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.UnitCost,
		&m.Timestamp, &m.Actor, &m.DocRef, &m.Reason, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
