package repository

import (
	"context"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	BusinessID string // vacío = todas las empresas
	Status     string // vacío = todos los estados
	Category   string // coincidencia exacta con la forma normalizada
	OwnerID    string // vacío = cualquier propietario
	// OrApproved amplía OwnerID: productos del propietario o aprobados.
	OrApproved bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// UpdateIfVersion persiste el producto solo si la versión almacenada es expectedVersion.
	// Devuelve domain.ErrConflict si otra escritura ganó y domain.ErrNotFound si no existe.
	UpdateIfVersion(ctx context.Context, product *entity.Product, expectedVersion int64) error
	// DeleteIfVersion elimina con la misma semántica compare-and-set que UpdateIfVersion.
	DeleteIfVersion(ctx context.Context, id string, expectedVersion int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
}

// ProductEventRepository auditoría de acciones sobre productos (solo inserción).
type ProductEventRepository interface {
	Append(ctx context.Context, event *entity.ProductEvent) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductEvent, error)
	// ListByBusiness devuelve los últimos limit eventos de la empresa, más recientes primero.
	ListByBusiness(ctx context.Context, businessID string, limit int) ([]*entity.ProductEvent, error)
}
