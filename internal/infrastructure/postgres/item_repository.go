package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
	"github.com/copypoint/copypoint-api/pkg/textutil"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = "id, sku, name, classification, category, reorder_threshold, active, created_at, updated_at"

// ItemRepo implementación del catálogo de artículos sobre PostgreSQL (usable
// con pool o tx). La columna name_norm guarda el nombre normalizado (sin
// acentos, minúsculas) para la búsqueda.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo. Devuelve ErrDuplicate si el SKU ya existe.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, sku, name, name_norm, classification, category, reorder_threshold, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Name, textutil.Normalize(item.Name),
		item.Classification, item.Category, item.ReorderThreshold, item.Active,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update actualiza los campos mutables del artículo (el SKU y la clasificación
// no cambian).
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, name_norm = $3, category = $4, reorder_threshold = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, textutil.Normalize(item.Name),
		item.Category, item.ReorderThreshold, item.Active, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID (nil si no existe).
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySKU obtiene un artículo por SKU (nil si no existe).
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1`
	return r.getOne(ctx, query, sku)
}

// GetForUpdate obtiene el artículo bloqueando su fila (SELECT FOR UPDATE).
// Debe llamarse dentro de una transacción: el bloqueo serializa los registros
// de movimientos del mismo artículo hasta el commit.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// List lista artículos con paginación, opcionalmente por categoría.
func (r *ItemRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	pos := 1
	if category != "" {
		query += fmt.Sprintf(" WHERE category = $%d", pos)
		args = append(args, category)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY sku ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// ListTracked lista los artículos activos con clasificación TRACKED.
func (r *ItemRepo) ListTracked(ctx context.Context, category string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE classification = $1 AND active`
	args := []any{entity.ClassificationTracked}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY sku ASC`
	return r.list(ctx, query, args...)
}

// Search busca por SKU exacto o por nombre normalizado (sin acentos,
// case-insensitive, coincidencia parcial).
func (r *ItemRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE sku = $1 OR name_norm LIKE '%' || $2 || '%'
		ORDER BY sku ASC LIMIT $3`
	return r.list(ctx, query, term, textutil.Normalize(term), limit)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// scanItem escanea una fila con itemColumns.
func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Classification, &it.Category,
		&it.ReorderThreshold, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
