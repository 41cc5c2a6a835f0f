package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mutesi02/product-marketplace/internal/application/usecase"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// BusinessHandler maneja las peticiones HTTP para Business.
type BusinessHandler struct {
	uc  *usecase.BusinessUseCase
	log *logger.Logger
}

// NewBusinessHandler construye el handler inyectando el caso de uso.
func NewBusinessHandler(uc *usecase.BusinessUseCase, log *logger.Logger) *BusinessHandler {
	return &BusinessHandler{uc: uc, log: log}
}

// Current godoc
// @Summary      Empresa del usuario autenticado
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business [get]
func (h *BusinessHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
