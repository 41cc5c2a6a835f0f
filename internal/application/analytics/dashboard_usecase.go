// Package analytics contiene el dashboard por rol con los conteos de productos y usuarios
// y el feed de actividad reciente de la empresa.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/lifecycle"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

// DashboardUseCase genera el dashboard de la identidad según su rol.
//
// Fuente de datos: ProductRepository.Count, UserRepository.CountByBusiness y
// ProductEventRepository.ListByBusiness (read-only).
type DashboardUseCase struct {
	products repository.ProductRepository
	users    repository.UserRepository
	events   repository.ProductEventRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	users repository.UserRepository,
	events repository.ProductEventRepository,
) *DashboardUseCase {
	return &DashboardUseCase{products: products, users: users, events: events}
}

// DefaultActivityLimit eventos del feed si no se indica limit.
const DefaultActivityLimit = 20

// Activities devuelve los últimos eventos de auditoría de la empresa, incluidos los de
// productos ya eliminados. Solo admin y approver. limit fuera de 1..100 se acota.
func (uc *DashboardUseCase) Activities(ctx context.Context, id entity.Identity, limit int) (*dto.ActivityListResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if !id.HasRole(entity.RoleAdmin, entity.RoleApprover) {
		return nil, fmt.Errorf("%w: el feed de actividad es para admin y approver", domain.ErrForbidden)
	}
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > dto.MaxPageLimit:
		limit = dto.MaxPageLimit
	}
	events, err := uc.events.ListByBusiness(ctx, id.BusinessID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.ToActivityResponse(e))
	}
	return &dto.ActivityListResponse{Items: items, Limit: limit}, nil
}

// stat un contador del dashboard.
type stat struct {
	key   string
	count func(ctx context.Context) (int, error)
}

// Get construye el dashboard. Los contadores se consultan en paralelo; el primer error cancela el resto.
//
//	admin    → total_users, total_products, pending_approvals
//	editor   → my_drafts, my_pending, my_approved, my_rejected
//	approver → pending_approvals, approved, rejected
//	viewer   → available_products
func (uc *DashboardUseCase) Get(ctx context.Context, id entity.Identity) (*dto.DashboardResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	stats, kind, err := uc.statsFor(id)
	if err != nil {
		return nil, err
	}

	results := make([]int, len(stats))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range stats {
		g.Go(func() error {
			n, err := s.count(gctx)
			if err != nil {
				return fmt.Errorf("dashboard: %s: %w", s.key, err)
			}
			results[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(stats))
	for i, s := range stats {
		out[s.key] = results[i]
	}
	return &dto.DashboardResponse{
		User:          id,
		Permissions:   lifecycle.CapabilitiesFor(id.Role),
		DashboardType: kind,
		Stats:         out,
	}, nil
}

func (uc *DashboardUseCase) statsFor(id entity.Identity) ([]stat, string, error) {
	products := func(key string, f repository.ProductFilter) stat {
		f.BusinessID = id.BusinessID
		return stat{key: key, count: func(ctx context.Context) (int, error) { return uc.products.Count(ctx, f) }}
	}
	mine := func(key, status string) stat {
		return products(key, repository.ProductFilter{OwnerID: id.ID, Status: status})
	}

	switch id.Role {
	case entity.RoleAdmin:
		return []stat{
			{key: "total_users", count: func(ctx context.Context) (int, error) { return uc.users.CountByBusiness(ctx, id.BusinessID) }},
			products("total_products", repository.ProductFilter{}),
			products("pending_approvals", repository.ProductFilter{Status: entity.StatusPendingApproval}),
		}, dto.DashboardAdmin, nil
	case entity.RoleEditor:
		return []stat{
			mine("my_drafts", entity.StatusDraft),
			mine("my_pending", entity.StatusPendingApproval),
			mine("my_approved", entity.StatusApproved),
			mine("my_rejected", entity.StatusRejected),
		}, dto.DashboardEditor, nil
	case entity.RoleApprover:
		return []stat{
			products("pending_approvals", repository.ProductFilter{Status: entity.StatusPendingApproval}),
			products("approved", repository.ProductFilter{Status: entity.StatusApproved}),
			products("rejected", repository.ProductFilter{Status: entity.StatusRejected}),
		}, dto.DashboardApprover, nil
	case entity.RoleViewer:
		return []stat{
			products("available_products", repository.ProductFilter{Status: entity.StatusApproved}),
		}, dto.DashboardViewer, nil
	}
	return nil, "", fmt.Errorf("%w: rol %q", domain.ErrForbidden, id.Role)
}
