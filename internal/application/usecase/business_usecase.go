package usecase

import (
	"context"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

// BusinessUseCase lectura de la empresa de la sesión.
type BusinessUseCase struct {
	repo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso con el puerto de persistencia.
func NewBusinessUseCase(repo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Current devuelve la empresa de la identidad.
func (uc *BusinessUseCase) Current(ctx context.Context, id entity.Identity) (*dto.BusinessResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	business, err := uc.repo.GetByID(ctx, id.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	res := dto.ToBusinessResponse(business)
	return &res, nil
}
