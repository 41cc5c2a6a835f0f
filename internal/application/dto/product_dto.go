package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto (queda en draft).
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// TransitionRequest entrada de PATCH /api/products/:id.
// Action: submit, approve, reject o edit. Los campos opcionales solo aplican a edit;
// Reason se guarda en el historial (útil en reject).
type TransitionRequest struct {
	Action      string           `json:"action"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// ProductListRequest filtros de GET /api/products.
type ProductListRequest struct {
	PageRequest
	Status   string `query:"status"`
	Category string `query:"category"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	BusinessID  string          `json:"business_id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductEventResponse entrada del historial de un producto.
type ProductEventResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToProductResponse mapea la entidad a la salida HTTP.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Status:      p.Status,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ActivityResponse evento de auditoría en el feed de actividad de la empresa.
type ActivityResponse struct {
	ProductEventResponse
	ProductID string `json:"product_id"`
}

// ActivityListResponse últimos eventos de la empresa, más recientes primero.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Limit int                `json:"limit"`
}

// ToActivityResponse mapea un evento al feed de actividad.
func ToActivityResponse(e *entity.ProductEvent) ActivityResponse {
	return ActivityResponse{ProductEventResponse: ToProductEventResponse(e), ProductID: e.ProductID}
}

// ToProductEventResponse mapea un evento de auditoría.
func ToProductEventResponse(e *entity.ProductEvent) ProductEventResponse {
	return ProductEventResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		Reason:     e.Reason,
		CreatedAt:  e.CreatedAt,
	}
}
