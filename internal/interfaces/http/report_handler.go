package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler reportes de ventas y stock, en JSON o como planilla xlsx.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        search  query  string  false  "Factura o cliente"
// @Success      200     {object}  dto.SalesReportResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	var q dto.DocumentListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SalesReport(c.UserContext(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Reporte de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre, SKU o código"
// @Success      200     {object}  dto.StockReportResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.StockReport(c.UserContext(), orgID, c.Query("search"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportSales godoc
// @Summary      Exportar reporte de ventas (xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        search  query  string  false  "Factura o cliente"
// @Success      200     {file}    file
// @Failure      503     {object}  dto.ErrorResponse
// @Router       /api/reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	var q dto.DocumentListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := h.uc.ExportSales(c.UserContext(), &buf, orgID, q); err != nil {
		return writeError(c, err)
	}
	return sendSpreadsheet(c, "ventas", buf.Bytes())
}

// ExportStock godoc
// @Summary      Exportar reporte de stock (xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        search  query  string  false  "Nombre, SKU o código"
// @Success      200     {file}    file
// @Failure      503     {object}  dto.ErrorResponse
// @Router       /api/reports/stock/export [get]
func (h *ReportHandler) ExportStock(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	var buf bytes.Buffer
	if err := h.uc.ExportStock(c.UserContext(), &buf, orgID, c.Query("search")); err != nil {
		return writeError(c, err)
	}
	return sendSpreadsheet(c, "stock", buf.Bytes())
}

func sendSpreadsheet(c *fiber.Ctx, name string, body []byte) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().Format("20060102")))
	return c.Send(body)
}
