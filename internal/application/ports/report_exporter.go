package ports

import (
	"io"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

// ReportExporter escribe reportes como planilla (xlsx).
type ReportExporter interface {
	WriteSalesReport(w io.Writer, r *dto.SalesReportResponse) error
	WriteStockReport(w io.Writer, r *dto.StockReportResponse) error
}
