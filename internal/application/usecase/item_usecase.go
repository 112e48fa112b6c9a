package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/copypoint/copypoint-api/internal/application/dto"
	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del catálogo de artículos. El stock no se toca
// aquí: se deriva del libro de movimientos.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un artículo. El SKU debe ser único.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Classification != entity.ClassificationTracked && in.Classification != entity.ClassificationUntracked {
		return nil, domain.ErrInvalidInput
	}
	if in.ReorderThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		SKU:              sku,
		Name:             name,
		Classification:   in.Classification,
		Category:         strings.TrimSpace(in.Category),
		ReorderThreshold: in.ReorderThreshold,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.ToItemResponse(item)
	return &resp, nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	resp := dto.ToItemResponse(item)
	return &resp, nil
}

// Update actualiza nombre, categoría, umbral de reorden o estado. No permite
// cambiar SKU ni clasificación.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.ReorderThreshold != nil {
		if *in.ReorderThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderThreshold = *in.ReorderThreshold
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.ToItemResponse(item)
	return &resp, nil
}

// List lista artículos con paginación, opcionalmente por categoría.
func (uc *ItemUseCase) List(ctx context.Context, category string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx, category, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Search busca por SKU exacto o por nombre sin distinguir acentos ni mayúsculas.
func (uc *ItemUseCase) Search(ctx context.Context, term string, limit int) ([]dto.ItemResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.ToItemResponse(it))
	}
	return items, nil
}
