package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/lifecycle"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// maxWriteAttempts intentos ante un conflicto de versión antes de rendirse con ErrConflict.
const maxWriteAttempts = 3

// ProductUseCase ciclo de vida de productos: cada mutación pasa por el gate de lifecycle
// y se persiste con compare-and-set de versión junto a su evento de auditoría.
type ProductUseCase struct {
	products repository.ProductRepository
	events   repository.ProductEventRepository
	tx       repository.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	events repository.ProductEventRepository,
	tx repository.TxRunner,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		products: products,
		events:   events,
		tx:       tx,
		log:      log.Component("products"),
		now:      time.Now,
	}
}

// Create crea un producto en draft, propiedad de la identidad.
func (uc *ProductUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := lifecycle.NewProduct(id, lifecycle.Draft{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
	}, uuid.New().String(), uc.now().UTC())
	if err != nil {
		return nil, err
	}
	err = uc.tx.RunProduct(ctx, func(products repository.ProductRepository, events repository.ProductEventRepository) error {
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		return events.Append(ctx, newEvent(id, product, lifecycle.ActionCreate, "", product.Status, "", product.CreatedAt))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("user_id", id.ID).Msg("producto creado")
	res := dto.ToProductResponse(product)
	return &res, nil
}

// Transition aplica submit, approve, reject o edit.
// Ante un conflicto de versión relee el producto y vuelve a evaluar el gate.
func (uc *ProductUseCase) Transition(ctx context.Context, id entity.Identity, productID string, in dto.TransitionRequest) (*dto.ProductResponse, error) {
	action, ok := lifecycle.ParseAction(strings.ToLower(strings.TrimSpace(in.Action)))
	if !ok {
		return nil, domain.NewValidationError("action", "debe ser submit, approve, reject o edit")
	}
	patch := lifecycle.Patch{Name: in.Name, Description: in.Description, Category: in.Category, Price: in.Price}
	reason := strings.TrimSpace(in.Reason)

	var updated *entity.Product
	err := uc.withRetry(ctx, id, productID, func(current *entity.Product) error {
		next, err := lifecycle.Apply(id, current, action, patch, uc.now().UTC())
		if err != nil {
			return err
		}
		return uc.tx.RunProduct(ctx, func(products repository.ProductRepository, events repository.ProductEventRepository) error {
			if err := products.UpdateIfVersion(ctx, next, current.Version); err != nil {
				return err
			}
			updated = next
			return events.Append(ctx, newEvent(id, next, action, current.Status, next.Status, reason, next.UpdatedAt))
		})
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("product_id", productID).Str("action", string(action)).Msg("transición rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", updated.ID).
		Str("user_id", id.ID).
		Str("action", string(action)).
		Str("status", updated.Status).
		Msg("transición aplicada")
	res := dto.ToProductResponse(updated)
	return &res, nil
}

// Delete elimina el producto si el gate lo permite.
func (uc *ProductUseCase) Delete(ctx context.Context, id entity.Identity, productID string) error {
	err := uc.withRetry(ctx, id, productID, func(current *entity.Product) error {
		if err := lifecycle.Authorize(id, current, lifecycle.ActionDelete); err != nil {
			return err
		}
		return uc.tx.RunProduct(ctx, func(products repository.ProductRepository, events repository.ProductEventRepository) error {
			if err := products.DeleteIfVersion(ctx, current.ID, current.Version); err != nil {
				return err
			}
			return events.Append(ctx, newEvent(id, current, lifecycle.ActionDelete, current.Status, "", "", uc.now().UTC()))
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", productID).Str("user_id", id.ID).Msg("producto eliminado")
	return nil
}

// GetByID lee un producto según la regla de visibilidad. Una identidad vacía es un visitante.
// Fuera de su empresa (o sin sesión) un producto no visible se reporta como inexistente.
func (uc *ProductUseCase) GetByID(ctx context.Context, id entity.Identity, productID string) (*dto.ProductResponse, error) {
	product, err := uc.visible(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	res := dto.ToProductResponse(product)
	return &res, nil
}

// List lista productos con el alcance del rol:
// viewer → aprobados de su empresa; editor → propios y aprobados; approver/admin → toda la empresa.
func (uc *ProductUseCase) List(ctx context.Context, id entity.Identity, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	in.DefaultPage()
	if in.Status != "" && !entity.IsValidStatus(in.Status) {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	filter := repository.ProductFilter{
		BusinessID: id.BusinessID,
		Status:     in.Status,
		Category:   lifecycle.NormalizeCategory(in.Category),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch id.Role {
	case entity.RoleViewer:
		if in.Status != "" && in.Status != entity.StatusApproved {
			return emptyPage(in.PageRequest), nil
		}
		filter.Status = entity.StatusApproved
	case entity.RoleEditor:
		filter.OwnerID = id.ID
		filter.OrApproved = true
	case entity.RoleApprover, entity.RoleAdmin:
	default:
		return nil, domain.ErrForbidden
	}
	return uc.page(ctx, filter)
}

// ListPublic catálogo público: aprobados de todas las empresas, sin sesión.
func (uc *ProductUseCase) ListPublic(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	return uc.page(ctx, repository.ProductFilter{
		Status: entity.StatusApproved,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// History devuelve la auditoría del producto, solo dentro de la empresa dueña.
// Un producto eliminado conserva su historial, visible solo para approver/admin.
func (uc *ProductUseCase) History(ctx context.Context, id entity.Identity, productID string) ([]dto.ProductEventResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if !validID(productID) {
		return nil, domain.ErrNotFound
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	events, err := uc.events.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product != nil {
		if product.BusinessID != id.BusinessID {
			return nil, domain.ErrNotFound
		}
		if !lifecycle.CanView(id, product) {
			return nil, domain.ErrForbidden
		}
	} else {
		if len(events) == 0 || events[0].BusinessID != id.BusinessID ||
			!id.HasRole(entity.RoleAdmin, entity.RoleApprover) {
			return nil, domain.ErrNotFound
		}
	}
	out := make([]dto.ProductEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.ToProductEventResponse(e))
	}
	return out, nil
}

func (uc *ProductUseCase) visible(ctx context.Context, id entity.Identity, productID string) (*entity.Product, error) {
	if !validID(productID) {
		return nil, domain.ErrNotFound
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !lifecycle.CanView(id, product) {
		return nil, hiddenErr(id, product.BusinessID)
	}
	return product, nil
}

// withRetry carga el producto y ejecuta fn; si fn pierde la carrera de versión, reintenta.
// Un ID mal formado o un producto de otra empresa se reportan como inexistentes.
func (uc *ProductUseCase) withRetry(ctx context.Context, id entity.Identity, productID string, fn func(current *entity.Product) error) error {
	if id.IsZero() {
		return domain.ErrUnauthorized
	}
	if !validID(productID) {
		return domain.ErrNotFound
	}
	for attempt := 1; ; attempt++ {
		current, err := uc.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if current == nil || current.BusinessID != id.BusinessID {
			return domain.ErrNotFound
		}
		err = fn(current)
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxWriteAttempts {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		uc.log.Debug().Str("product_id", productID).Int("attempt", attempt).Msg("conflicto de versión, reintentando")
	}
}

func (uc *ProductUseCase) page(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	list, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func emptyPage(p dto.PageRequest) *dto.ProductListResponse {
	return &dto.ProductListResponse{
		Items: []dto.ProductResponse{},
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset},
	}
}

// hiddenErr: misma empresa → Forbidden; otra empresa o anónimo → NotFound.
func hiddenErr(id entity.Identity, businessID string) error {
	if !id.IsZero() && id.BusinessID == businessID {
		return domain.ErrForbidden
	}
	return domain.ErrNotFound
}

// validID acepta solo la forma canónica de UUID; cualquier otra cosa no existe.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func newEvent(id entity.Identity, p *entity.Product, action lifecycle.Action, from, to, reason string, at time.Time) *entity.ProductEvent {
	return &entity.ProductEvent{
		ID:         uuid.New().String(),
		ProductID:  p.ID,
		BusinessID: p.BusinessID,
		ActorID:    id.ID,
		Action:     string(action),
		FromStatus: from,
		ToStatus:   to,
		Reason:     reason,
		CreatedAt:  at,
	}
}
