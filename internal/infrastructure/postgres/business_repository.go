package postgres

import (
	"context"
	"fmt"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

// Asegura que BusinessRepo implementa repository.BusinessRepository.
var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador de persistencia para empresas.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO businesses (id, name, industry, company_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Name, b.Industry, b.CompanySize, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByName obtiene una empresa por nombre.
func (r *BusinessRepo) GetByName(ctx context.Context, name string) (*entity.Business, error) {
	return r.getOne(ctx, `WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
}

func (r *BusinessRepo) getOne(ctx context.Context, where string, arg any) (*entity.Business, error) {
	var b entity.Business
	err := r.q.QueryRow(ctx, `
		SELECT id, name, industry, company_size, created_at, updated_at
		FROM businesses `+where, arg).Scan(
		&b.ID, &b.Name, &b.Industry, &b.CompanySize, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}
