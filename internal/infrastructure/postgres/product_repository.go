package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, business_id, owner_id, name, description, category, price, status, version, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.OwnerID, p.Name, p.Description, p.Category, p.Price, p.Status, p.Version,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if verr := checkViolation(err, "products"); verr != nil {
			return verr
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdateIfVersion actualiza los campos mutables solo si la versión coincide (compare-and-set).
func (r *ProductRepo) UpdateIfVersion(ctx context.Context, p *entity.Product, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $3, description = $4, category = $5, price = $6, status = $7, version = $8, updated_at = $9
		WHERE id = $1 AND version = $2`,
		p.ID, expectedVersion, p.Name, p.Description, p.Category, p.Price, p.Status, p.Version, p.UpdatedAt,
	)
	if err != nil {
		if verr := checkViolation(err, "products"); verr != nil {
			return verr
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, p.ID)
	}
	return nil
}

// DeleteIfVersion elimina el producto solo si la versión coincide.
func (r *ProductRepo) DeleteIfVersion(ctx context.Context, id string, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND version = $2`, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict distingue entre fila inexistente y versión desactualizada.
func (r *ProductRepo) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

// List lista productos según el filtro, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	where, args := productWhere(f)
	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count cuenta los productos que cumplen el filtro.
func (r *ProductRepo) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	where, args := productWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func productWhere(f repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.BusinessID != "" {
		conds = append(conds, "business_id = "+arg(f.BusinessID))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.OwnerID != "" {
		if f.OrApproved {
			conds = append(conds, "(owner_id = "+arg(f.OwnerID)+" OR status = "+arg(entity.StatusApproved)+")")
		} else {
			conds = append(conds, "owner_id = "+arg(f.OwnerID))
		}
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.BusinessID, &p.OwnerID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
