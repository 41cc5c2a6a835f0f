package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/Mutesi02/product-marketplace/internal/application/analytics"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// DashboardHandler maneja el dashboard por rol.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Get devuelve el dashboard de la identidad autenticada.
// GET /api/dashboard
//
// Respuesta: DashboardResponse (user, permissions, dashboard_type, stats).
// Las claves de stats dependen del rol.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Activities godoc
// @Summary      Actividad reciente de la empresa
// @Description  Últimos eventos de auditoría de productos, más recientes primero. Solo admin y approver.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad de eventos (máx. 100)"  default(20)
// @Success      200    {object}  dto.ActivityListResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /api/dashboard/activities [get]
func (h *DashboardHandler) Activities(c *fiber.Ctx) error {
	out, err := h.uc.Activities(c.UserContext(), GetIdentity(c), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
