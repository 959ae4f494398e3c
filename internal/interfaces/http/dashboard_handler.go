package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
)

// DashboardHandler panel de inventario.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetInventory godoc
// @Summary      Dashboard de inventario
// @Description  Totales, valor de stock, compras/ventas de los últimos 6 meses y top de productos.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboard/inventory [get]
func (h *DashboardHandler) GetInventory(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetInventory(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
