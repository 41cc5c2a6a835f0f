package memory

import (
	"context"
	"sort"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.ProductEventRepository = (*EventRepo)(nil)
)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s    *Store
	undo *undoLog
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrConflict
	}
	r.s.products[product.ID] = *product
	id := product.ID
	r.undo.record(func() { delete(r.s.products, id) })
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UpdateIfVersion reemplaza el producto si la versión almacenada coincide.
func (r *ProductRepo) UpdateIfVersion(_ context.Context, product *entity.Product, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Version != expectedVersion {
		return domain.ErrConflict
	}
	r.s.products[product.ID] = *product
	r.undo.record(func() { r.s.products[prev.ID] = prev })
	return nil
}

// DeleteIfVersion elimina el producto si la versión almacenada coincide.
func (r *ProductRepo) DeleteIfVersion(_ context.Context, id string, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Version != expectedVersion {
		return domain.ErrConflict
	}
	delete(r.s.products, id)
	r.undo.record(func() { r.s.products[prev.ID] = prev })
	return nil
}

// List lista productos que cumplen el filtro, más recientes primero.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	matched := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if matches(p, f) {
			cp := p
			matched = append(matched, &cp)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Limit, f.Offset), nil
}

// Count cuenta los productos que cumplen el filtro (ignora paginación).
func (r *ProductRepo) Count(_ context.Context, f repository.ProductFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if matches(p, f) {
			n++
		}
	}
	return n, nil
}

func matches(p entity.Product, f repository.ProductFilter) bool {
	if f.BusinessID != "" && p.BusinessID != f.BusinessID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.OwnerID != "" {
		own := p.OwnerID == f.OwnerID
		if f.OrApproved {
			return own || p.Status == entity.StatusApproved
		}
		return own
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// EventRepo implementación en memoria de ProductEventRepository.
type EventRepo struct {
	s    *Store
	undo *undoLog
}

// Append agrega un evento de auditoría.
func (r *EventRepo) Append(_ context.Context, event *entity.ProductEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, *event)
	id := event.ID
	r.undo.record(func() {
		for i := range r.s.events {
			if r.s.events[i].ID == id {
				r.s.events = append(r.s.events[:i], r.s.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

// ListByProduct devuelve los eventos del producto en orden cronológico.
func (r *EventRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ProductEvent, 0)
	for _, e := range r.s.events {
		if e.ProductID == productID {
			cp := e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ListByBusiness recorre los eventos desde el final: el slice está en orden de inserción.
func (r *EventRepo) ListByBusiness(_ context.Context, businessID string, limit int) ([]*entity.ProductEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ProductEvent, 0)
	for i := len(r.s.events) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if e := r.s.events[i]; e.BusinessID == businessID {
			out = append(out, &e)
		}
	}
	return out, nil
}
