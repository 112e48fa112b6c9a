package dto

import (
	"time"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// CreateItemRequest entrada para crear un artículo del catálogo.
type CreateItemRequest struct {
	SKU              string `json:"sku" validate:"required,min=1,max=100"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
	Classification   string `json:"classification" validate:"required,oneof=TRACKED UNTRACKED"`
	Category         string `json:"category" validate:"omitempty,max=100"`
	ReorderThreshold int64  `json:"reorder_threshold" validate:"min=0"`
}

// UpdateItemRequest entrada para actualizar un artículo. El SKU y la
// clasificación no se modifican: un servicio no puede volverse inventariable
// sin historial de movimientos.
type UpdateItemRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category         *string `json:"category" validate:"omitempty,max=100"`
	ReorderThreshold *int64  `json:"reorder_threshold" validate:"omitempty,min=0"`
	Active           *bool   `json:"active"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID               string    `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Classification   string    `json:"classification"`
	Category         string    `json:"category,omitempty"`
	ReorderThreshold int64     `json:"reorder_threshold"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToItemResponse mapea la entidad al DTO de salida.
func ToItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:               it.ID,
		SKU:              it.SKU,
		Name:             it.Name,
		Classification:   it.Classification,
		Category:         it.Category,
		ReorderThreshold: it.ReorderThreshold,
		Active:           it.Active,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
}
