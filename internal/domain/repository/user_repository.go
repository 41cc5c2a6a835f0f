package repository

import (
	"context"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.User, error)
	CountByBusiness(ctx context.Context, businessID string) (int, error)
	Delete(ctx context.Context, id string) error
}
