package repository

import (
	"context"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (DIP).
// La implementación vive en infrastructure.
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	GetByName(ctx context.Context, name string) (*entity.Business, error)
}
