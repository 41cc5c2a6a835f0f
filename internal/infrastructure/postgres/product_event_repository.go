package postgres

import (
	"context"
	"fmt"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

var _ repository.ProductEventRepository = (*ProductEventRepo)(nil)

// ProductEventRepo auditoría de productos sobre PostgreSQL.
// product_id no tiene FK: el historial sobrevive al borrado del producto.
type ProductEventRepo struct {
	q Querier
}

// NewProductEventRepository construye el repositorio de eventos. Pasar pool o tx.
func NewProductEventRepository(q Querier) *ProductEventRepo {
	return &ProductEventRepo{q: q}
}

// Append inserta un evento.
func (r *ProductEventRepo) Append(ctx context.Context, e *entity.ProductEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.ProductID, e.BusinessID, e.ActorID, e.Action, e.FromStatus, e.ToStatus, e.Reason, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product event: %w", err)
	}
	return nil
}

const eventColumns = `id, product_id, business_id, actor_id, action, from_status, to_status, reason, created_at`

// ListByProduct devuelve el historial en orden cronológico.
func (r *ProductEventRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductEvent, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM product_events
		WHERE product_id = $1 ORDER BY created_at, id`, productID)
}

// ListByBusiness devuelve los últimos eventos de la empresa (índice product_events_business_idx).
func (r *ProductEventRepo) ListByBusiness(ctx context.Context, businessID string, limit int) ([]*entity.ProductEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM product_events
		WHERE business_id = $1 ORDER BY created_at DESC, id DESC`
	args := []any{businessID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

func (r *ProductEventRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product events: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ProductEvent, 0)
	for rows.Next() {
		var e entity.ProductEvent
		if err := rows.Scan(&e.ID, &e.ProductID, &e.BusinessID, &e.ActorID, &e.Action,
			&e.FromStatus, &e.ToStatus, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
