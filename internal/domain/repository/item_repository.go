package repository

import (
	"context"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// ItemRepository puerto de persistencia del catálogo de artículos.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo bloqueando su fila (SELECT FOR UPDATE).
	// Es el punto de serialización por artículo del motor de registro: toda
	// mutación del libro para ese artículo pasa por este bloqueo.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Item, error)
	// ListTracked devuelve los artículos activos con clasificación TRACKED,
	// opcionalmente filtrados por categoría.
	ListTracked(ctx context.Context, category string) ([]*entity.Item, error)
	// Search busca por nombre normalizado (sin acentos, case-insensitive) o SKU exacto.
	Search(ctx context.Context, term string, limit int) ([]*entity.Item, error)
}
