// Package analytics contiene los casos de uso de reportes de ventas y stock.
package analytics

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/application/transaction"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ReportUseCase reportes de solo lectura, siempre acotados a la organización.
type ReportUseCase struct {
	reportRepo  repository.ReportRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	exporter    ports.ReportExporter
}

// NewReportUseCase construye el caso de uso. exporter puede ser nil (exportación deshabilitada).
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	exporter ports.ReportExporter,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:  reportRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		exporter:    exporter,
	}
}

// SalesReport ventas del rango (fechas inclusive) con búsqueda por número o cliente.
// El resumen se calcula en SQL sobre el mismo filtro que el listado.
func (uc *ReportUseCase) SalesReport(ctx context.Context, organizationID string, q dto.DocumentListQuery) (*dto.SalesReportResponse, error) {
	f, err := transaction.DocumentFilter(q)
	if err != nil {
		return nil, err
	}
	summary, err := uc.reportRepo.SalesSummary(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	sales, _, err := uc.saleRepo.List(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	out := &dto.SalesReportResponse{
		Summary: dto.SalesReportSummary{
			Invoices:  summary.Invoices,
			ItemsSold: summary.ItemsSold,
			Revenue:   summary.Revenue.Round(2),
			Discounts: summary.Discounts.Round(2),
		},
		Sales: make([]dto.SaleResponse, 0, len(sales)),
	}
	for _, s := range sales {
		out.Sales = append(out.Sales, transaction.ToSaleResponse(s))
	}
	return out, nil
}

// StockReport productos con su valorización y el resumen de stock.
func (uc *ReportUseCase) StockReport(ctx context.Context, organizationID, search string) (*dto.StockReportResponse, error) {
	search = strings.TrimSpace(search)
	summary, err := uc.reportRepo.StockSummary(ctx, organizationID, search)
	if err != nil {
		return nil, err
	}
	products, _, err := uc.productRepo.List(ctx, organizationID, repository.ProductFilter{Search: search})
	if err != nil {
		return nil, err
	}
	out := &dto.StockReportResponse{
		Summary: dto.StockReportSummary{
			StockValueCost:   summary.StockValueCost.Round(2),
			StockValueRetail: summary.StockValueRetail.Round(2),
			LowStockItems:    summary.LowStockItems,
			OutOfStockItems:  summary.OutOfStockItems,
		},
		Products: make([]dto.StockReportProduct, 0, len(products)),
	}
	for _, p := range products {
		out.Products = append(out.Products, toStockReportProduct(p))
	}
	return out, nil
}

// ExportSales escribe el reporte de ventas como xlsx.
func (uc *ReportUseCase) ExportSales(ctx context.Context, w io.Writer, organizationID string, q dto.DocumentListQuery) error {
	if uc.exporter == nil {
		return domain.ErrUnavailable
	}
	r, err := uc.SalesReport(ctx, organizationID, q)
	if err != nil {
		return err
	}
	if err := uc.exporter.WriteSalesReport(w, r); err != nil {
		return fmt.Errorf("export sales report: %w", err)
	}
	return nil
}

// ExportStock escribe el reporte de stock como xlsx.
func (uc *ReportUseCase) ExportStock(ctx context.Context, w io.Writer, organizationID, search string) error {
	if uc.exporter == nil {
		return domain.ErrUnavailable
	}
	r, err := uc.StockReport(ctx, organizationID, search)
	if err != nil {
		return err
	}
	if err := uc.exporter.WriteStockReport(w, r); err != nil {
		return fmt.Errorf("export stock report: %w", err)
	}
	return nil
}

func toStockReportProduct(p *entity.Product) dto.StockReportProduct {
	qty := decimalFromInt(p.CurrentStock)
	return dto.StockReportProduct{
		ID:               p.ID,
		ProductCode:      p.ProductCode,
		Name:             p.Name,
		SKU:              p.SKU,
		CategoryName:     p.CategoryName,
		Unit:             p.Unit,
		PurchasePrice:    p.PurchasePrice,
		SellPrice:        p.SellPrice,
		ReorderLevel:     p.ReorderLevel,
		CurrentStock:     p.CurrentStock,
		Status:           p.Status,
		StockStatus:      p.StockStatus(),
		StockValueCost:   p.PurchasePrice.Mul(qty).Round(2),
		StockValueRetail: p.SellPrice.Mul(qty).Round(2),
	}
}
