package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

// statsTopN cantidad de productos en el ranking de más movidos.
const statsTopN = 5

// MovementHandler maneja entradas, salidas, ajustes y consultas del ledger (protegido).
type MovementHandler struct {
	uc   *usecase.MovementUseCase
	bind binder
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase, v validator.Validator) *MovementHandler {
	return &MovementHandler{uc: uc, bind: binder{v: v}}
}

// Register godoc
// @Summary      Registrar movimiento de estoque
// @Description  Una salida mayor al stock actual responde 409 con la cantidad disponible y no registra nada.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "produto_id, tipo_movimentacao (entrada|saida), quantidade, valor_unitario, unidade_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de estoque
// @Description  Registra un movimiento con observación "Ajuste de estoque: <motivo>".
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "tipo_movimentacao, quantidade, motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/adjust [post]
func (h *MovementHandler) Adjust(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in dto.AdjustStockRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Adjust(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        produto_id  query  string  false  "ID del producto"
// @Param        unidade_id  query  string  false  "ID de la unidad"
// @Param        tipo        query  string  false  "entrada | saida"
// @Param        de          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        ate         query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite (default 50)"
// @Param        offset      query  int     false  "Offset"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := h.bind.query(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de movimientos del período
// @Description  Totales de entradas y salidas, serie diaria y productos más movidos. Por defecto el mes en curso.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        de   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        ate  query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.MovementStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/stats [get]
func (h *MovementHandler) Stats(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := h.bind.query(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Stats(c.UserContext(), in, statsTopN)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
