package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// DashboardHandler maneja el resumen del panel principal.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales del catálogo, el resumen del día y los productos en alerta.
// GET /api/dashboard
//
// Respuesta: DashboardResponse (total_produtos, estoque_baixo, valor_total_estoque, hoje,
// ultimas_movimentacoes[5], produtos_alerta[5]).
// No requiere parámetros; "hoy" se calcula en la zona horaria configurada.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
