package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Mutesi02/product-marketplace/internal/application/usecase"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// PublicHandler catálogo público, sin sesión.
type PublicHandler struct {
	products *usecase.ProductUseCase
	catalog  *usecase.CatalogUseCase
	log      *logger.Logger
}

// NewPublicHandler construye el handler.
func NewPublicHandler(products *usecase.ProductUseCase, catalog *usecase.CatalogUseCase, log *logger.Logger) *PublicHandler {
	return &PublicHandler{products: products, catalog: catalog, log: log}
}

// Products godoc
// @Summary      Catálogo público (productos aprobados)
// @Tags         public
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/public/products [get]
func (h *PublicHandler) Products(c *fiber.Ctx) error {
	out, err := h.products.ListPublic(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CatalogPDF godoc
// @Summary      Catálogo público en PDF
// @Tags         public
// @Produce      application/pdf
// @Success      200
// @Router       /api/public/catalog.pdf [get]
func (h *PublicHandler) CatalogPDF(c *fiber.Ctx) error {
	doc, filename, err := h.catalog.ExportPDF(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(doc)
}
