// Package excel exportación de reportes a xlsx con excelize.
package excel

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
)

var _ ports.ReportExporter = ReportWriter{}

// ReportWriter escribe los reportes en un libro con dos hojas: resumen y detalle.
type ReportWriter struct{}

// WriteSalesReport hoja "Resumen" + hoja "Ventas".
func (ReportWriter) WriteSalesReport(w io.Writer, r *dto.SalesReportResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := [][]interface{}{
		{"Facturas", r.Summary.Invoices},
		{"Unidades vendidas", r.Summary.ItemsSold},
		{"Ingresos", r.Summary.Revenue.InexactFloat64()},
		{"Descuentos", r.Summary.Discounts.InexactFloat64()},
	}
	if err := writeSheet(f, "Resumen", []interface{}{"Concepto", "Valor"}, summary); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(r.Sales))
	for _, s := range r.Sales {
		rows = append(rows, []interface{}{
			s.InvoiceNumber,
			s.CreatedAt.Format(time.DateTime),
			s.CustomerName,
			s.ItemsCount,
			s.TotalAmount.InexactFloat64(),
			s.Discount.InexactFloat64(),
			s.VAT.InexactFloat64(),
			s.NetTotal.InexactFloat64(),
			s.PaidAmount.InexactFloat64(),
			s.DueAmount.InexactFloat64(),
			s.PaymentStatus,
		})
	}
	header := []interface{}{"Factura", "Fecha", "Cliente", "Unidades", "Total", "Descuento", "IVA", "Neto", "Pagado", "Adeudado", "Estado"}
	if err := writeSheet(f, "Ventas", header, rows); err != nil {
		return err
	}
	return finish(f, w)
}

// WriteStockReport hoja "Resumen" + hoja "Stock".
func (ReportWriter) WriteStockReport(w io.Writer, r *dto.StockReportResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := [][]interface{}{
		{"Valor a costo", r.Summary.StockValueCost.InexactFloat64()},
		{"Valor a precio de venta", r.Summary.StockValueRetail.InexactFloat64()},
		{"Productos con stock bajo", r.Summary.LowStockItems},
		{"Productos sin stock", r.Summary.OutOfStockItems},
	}
	if err := writeSheet(f, "Resumen", []interface{}{"Concepto", "Valor"}, summary); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(r.Products))
	for _, p := range r.Products {
		rows = append(rows, []interface{}{
			p.ProductCode,
			p.SKU,
			p.Name,
			p.CategoryName,
			p.Unit,
			p.CurrentStock,
			p.ReorderLevel,
			p.StockStatus,
			p.PurchasePrice.InexactFloat64(),
			p.SellPrice.InexactFloat64(),
			p.StockValueCost.InexactFloat64(),
			p.StockValueRetail.InexactFloat64(),
		})
	}
	header := []interface{}{"Código", "SKU", "Producto", "Categoría", "Unidad", "Stock", "Punto de reorden", "Estado", "Costo", "Precio", "Valor costo", "Valor venta"}
	if err := writeSheet(f, "Stock", header, rows); err != nil {
		return err
	}
	return finish(f, w)
}

// writeSheet crea (o renombra la hoja inicial) y escribe encabezado + filas desde A1.
func writeSheet(f *excelize.File, name string, header []interface{}, rows [][]interface{}) error {
	if f.SheetCount == 1 && f.GetSheetName(0) == "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("excel: renombrar hoja: %w", err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("excel: crear hoja %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("excel: encabezado %s: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: celda: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("excel: fila %d de %s: %w", i+2, name, err)
		}
	}
	return nil
}

func finish(f *excelize.File, w io.Writer) error {
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir libro: %w", err)
	}
	return nil
}
