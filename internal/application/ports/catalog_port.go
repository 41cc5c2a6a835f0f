package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem fila del catálogo público exportado.
type CatalogItem struct {
	Name         string
	Description  string
	BusinessName string
	Price        decimal.Decimal
	UpdatedAt    time.Time
}

// Catalog documento a renderizar: encabezado y productos aprobados.
type Catalog struct {
	Title       string
	GeneratedAt time.Time
	URL         string // opcional; si viene se imprime como QR
	Items       []CatalogItem
}

// CatalogRenderer define el puerto de salida para exportar el catálogo a PDF.
// El adaptador concreto (Maroto) vive en infrastructure/pdf.
type CatalogRenderer interface {
	RenderCatalog(ctx context.Context, catalog Catalog) ([]byte, error)
}
