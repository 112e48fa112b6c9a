package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/copypoint/copypoint-api/internal/application/dto"
	"github.com/copypoint/copypoint-api/internal/application/reports"
)

// ReportHandler maneja las descargas de reportes (PDF y XLSX).
type ReportHandler struct {
	uc *reports.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ExportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// MovementsPDF godoc
// @Summary      Descargar historial de movimientos en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        item_id  query  string  false  "UUID del artículo"
// @Param        from     query  string  false  "Inicio del rango (RFC3339)"
// @Param        to       query  string  false  "Fin del rango (RFC3339)"
// @Param        kind     query  string  false  "Tipo de movimiento"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements.pdf [get]
func (h *ReportHandler) MovementsPDF(c *fiber.Ctx) error {
	f, err := parseQueryFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	pdfBytes, filename, err := h.uc.MovementsPDF(c.Context(), f)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// MovementsXLSX godoc
// @Summary      Descargar historial de movimientos en XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        item_id  query  string  false  "UUID del artículo"
// @Param        from     query  string  false  "Inicio del rango (RFC3339)"
// @Param        to       query  string  false  "Fin del rango (RFC3339)"
// @Param        kind     query  string  false  "Tipo de movimiento"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements.xlsx [get]
func (h *ReportHandler) MovementsXLSX(c *fiber.Ctx) error {
	f, err := parseQueryFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	xlsxBytes, filename, err := h.uc.MovementsXLSX(c.Context(), f)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xlsxBytes)
}

// LowStockXLSX godoc
// @Summary      Descargar evaluación de stock bajo en XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {file}    file
// @Router       /api/reports/low-stock.xlsx [get]
func (h *ReportHandler) LowStockXLSX(c *fiber.Ctx) error {
	xlsxBytes, filename, err := h.uc.LowStockXLSX(c.Context(), c.Query("category"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xlsxBytes)
}
