// Package pdf renderiza el catálogo público de productos aprobados.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Descripción | Empresa | Precio            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: cantidad de productos  │  QR opcional             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Mutesi02/product-marketplace/internal/application/ports"
)

var _ ports.CatalogRenderer = (*MarotoCatalogRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const maxDescriptionRunes = 90

// MarotoCatalogRenderer implementa ports.CatalogRenderer usando Maroto v2.
type MarotoCatalogRenderer struct{}

// NewMarotoCatalogRenderer construye el renderer.
func NewMarotoCatalogRenderer() *MarotoCatalogRenderer { return &MarotoCatalogRenderer{} }

// RenderCatalog genera el PDF y devuelve sus bytes.
func (g *MarotoCatalogRenderer) RenderCatalog(ctx context.Context, c ports.Catalog) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(c.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(c.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos aprobados.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	m.AddRows(tableRows(c.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(c))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar catálogo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(c ports.Catalog) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(c.Title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2}),
		),
		col.New(4).Add(
			text.New("Generado: "+c.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Descripción", 5, align.Left),
		h("Empresa", 2, align.Left),
		h("Precio", 2, align.Right),
	)
}

func tableRows(items []ports.CatalogItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(3).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(truncate(it.Description, maxDescriptionRunes), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(it.BusinessName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(it.Price.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func summaryRow(c ports.Catalog) core.Row {
	summary := col.New(8).Add(
		text.New(fmt.Sprintf("%d productos aprobados", len(c.Items)), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 3, Color: colorPrimary,
		}),
	)
	if c.URL == "" {
		return row.New(12).Add(summary, col.New(4))
	}
	return row.New(40).Add(
		summary,
		col.New(4).Add(code.NewQr(c.URL, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// formatMoney inserta puntos de miles en la parte entera y coma decimal.
// Ej: "25000.50" → "25.000,50"
func formatMoney(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+1)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
