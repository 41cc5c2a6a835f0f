package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Mutesi02/product-marketplace/internal/application/ports"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

// catalogPageSize tamaño de lote al recorrer los productos aprobados.
const catalogPageSize = 200

// CatalogUseCase exporta el catálogo público (productos aprobados de todas las empresas).
type CatalogUseCase struct {
	products   repository.ProductRepository
	businesses repository.BusinessRepository
	renderer   ports.CatalogRenderer
	title      string
	publicURL  string
	now        func() time.Time
}

// NewCatalogUseCase construye el caso de uso. publicURL es opcional (se imprime como QR).
func NewCatalogUseCase(
	products repository.ProductRepository,
	businesses repository.BusinessRepository,
	renderer ports.CatalogRenderer,
	title, publicURL string,
) *CatalogUseCase {
	return &CatalogUseCase{
		products:   products,
		businesses: businesses,
		renderer:   renderer,
		title:      title,
		publicURL:  publicURL,
		now:        time.Now,
	}
}

// ExportPDF genera el PDF del catálogo y el nombre de archivo sugerido.
func (uc *CatalogUseCase) ExportPDF(ctx context.Context) ([]byte, string, error) {
	items, err := uc.items(ctx)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	doc, err := uc.renderer.RenderCatalog(ctx, ports.Catalog{
		Title:       uc.title,
		GeneratedAt: now,
		URL:         uc.publicURL,
		Items:       items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("catálogo: %w", err)
	}
	return doc, fmt.Sprintf("catalogo-%s.pdf", now.Format("20060102")), nil
}

func (uc *CatalogUseCase) items(ctx context.Context) ([]ports.CatalogItem, error) {
	names := make(map[string]string)
	var items []ports.CatalogItem
	for offset := 0; ; offset += catalogPageSize {
		page, err := uc.products.List(ctx, repository.ProductFilter{
			Status: entity.StatusApproved,
			Limit:  catalogPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("catálogo: listar productos: %w", err)
		}
		for _, p := range page {
			name, ok := names[p.BusinessID]
			if !ok {
				b, err := uc.businesses.GetByID(ctx, p.BusinessID)
				if err != nil {
					return nil, fmt.Errorf("catálogo: empresa %s: %w", p.BusinessID, err)
				}
				if b != nil {
					name = b.Name
				}
				names[p.BusinessID] = name
			}
			items = append(items, ports.CatalogItem{
				Name:         p.Name,
				Description:  p.Description,
				BusinessName: name,
				Price:        p.Price,
				UpdatedAt:    p.UpdatedAt,
			})
		}
		if len(page) < catalogPageSize {
			return items, nil
		}
	}
}
