package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/export"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

// ReportHandler exporta los reportes de catálogo, movimientos y reposición.
type ReportHandler struct {
	uc        *report.UseCase
	movements *usecase.MovementUseCase
	bind      binder
	now       func() time.Time
}

// NewReportHandler construye el handler. movements aporta el parseo de filtros de fecha.
func NewReportHandler(uc *report.UseCase, movements *usecase.MovementUseCase, v validator.Validator) *ReportHandler {
	return &ReportHandler{uc: uc, movements: movements, bind: binder{v: v}, now: time.Now}
}

// send serializa la tabla en el formato pedido (?formato=csv|xlsx|pdf) como adjunto.
func (h *ReportHandler) send(c *fiber.Ctx, t *report.Table) error {
	format, err := export.ParseFormat(c.Query("formato"))
	if err != nil {
		return err
	}
	w, err := export.NewWriter(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := w.Write(&buf, t); err != nil {
		return fmt.Errorf("exportar %s: %w", t.Name, err)
	}
	name := t.FileName(h.now().In(h.uc.Location()), string(format))
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}

func (h *ReportHandler) productFilter(c *fiber.Ctx) (repository.ProductFilter, error) {
	var in dto.ProductFilterRequest
	if err := h.bind.query(c, &in); err != nil {
		return repository.ProductFilter{}, err
	}
	return repository.ProductFilter{CategoryID: in.CategoryID, Search: in.Search}, nil
}

// Catalog godoc
// @Summary      Exportar catálogo de productos
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        formato    query  string  false  "csv (default) | xlsx | pdf"
// @Param        categoria  query  string  false  "ID de categoría"
// @Param        busca      query  string  false  "Búsqueda por nombre"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/products [get]
func (h *ReportHandler) Catalog(c *fiber.Ctx) error {
	filter, err := h.productFilter(c)
	if err != nil {
		return err
	}
	t, err := h.uc.CatalogTable(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return h.send(c, t)
}

// Movements godoc
// @Summary      Exportar movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        formato     query  string  false  "csv (default) | xlsx | pdf"
// @Param        produto_id  query  string  false  "ID del producto"
// @Param        tipo        query  string  false  "entrada | saida"
// @Param        de          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        ate         query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := h.bind.query(c, &in); err != nil {
		return err
	}
	filter, err := h.movements.Filter(in)
	if err != nil {
		return err
	}
	// El reporte no se pagina.
	filter.Limit, filter.Offset = 0, 0
	t, err := h.uc.MovementsTable(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return h.send(c, t)
}

// Restock godoc
// @Summary      Exportar lista de reposición (estoque atual <= mínimo)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        formato    query  string  false  "csv (default) | xlsx | pdf"
// @Param        categoria  query  string  false  "ID de categoría"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/restock [get]
func (h *ReportHandler) Restock(c *fiber.Ctx) error {
	filter, err := h.productFilter(c)
	if err != nil {
		return err
	}
	t, err := h.uc.RestockTable(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return h.send(c, t)
}
