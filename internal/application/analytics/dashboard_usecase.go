package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

const (
	dashboardTopProducts = 5 // productos en el ranking de más vendidos
	dashboardMonths      = 6 // meses del gráfico de valor de stock
	dashboardTrendDays   = 7 // días del gráfico de ventas
)

// DashboardUseCase arma el dashboard de inventario.
//
// Fuente de datos: ReportRepository y SupplierRepository (consultas read-only).
type DashboardUseCase struct {
	reportRepo   repository.ReportRepository
	supplierRepo repository.SupplierRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, supplierRepo repository.SupplierRepository) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, supplierRepo: supplierRepo, now: time.Now}
}

// GetInventory construye el DashboardResponse para la organización indicada.
//
// Las siete consultas corren en paralelo; el primer error aborta la respuesta.
func (uc *DashboardUseCase) GetInventory(ctx context.Context, organizationID string) (*dto.DashboardResponse, error) {
	trendSince, monthSince := dashboardRanges(uc.now())

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type countResult struct {
		n   int
		err error
	}
	type stockResult struct {
		s   repository.StockSummary
		err error
	}
	type monthsResult struct {
		rows []repository.MonthValue
		err  error
	}
	type daysResult struct {
		rows []repository.DayValue
		err  error
	}
	type categoriesResult struct {
		rows []repository.CategoryCount
		err  error
	}
	type topResult struct {
		rows []repository.TopProduct
		err  error
	}

	productsCh := make(chan countResult, 1)
	suppliersCh := make(chan countResult, 1)
	stockCh := make(chan stockResult, 1)
	monthsCh := make(chan monthsResult, 1)
	daysCh := make(chan daysResult, 1)
	categoriesCh := make(chan categoriesResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		n, err := uc.reportRepo.ProductCount(ctx, organizationID)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.supplierRepo.Count(ctx, organizationID)
		suppliersCh <- countResult{n, err}
	}()
	go func() {
		s, err := uc.reportRepo.StockSummary(ctx, organizationID, "")
		stockCh <- stockResult{s, err}
	}()
	go func() {
		rows, err := uc.reportRepo.StockValueByMonth(ctx, organizationID, monthSince)
		monthsCh <- monthsResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.SalesByDay(ctx, organizationID, trendSince)
		daysCh <- daysResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.CategoryDistribution(ctx, organizationID)
		categoriesCh <- categoriesResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.TopProductsSold(ctx, organizationID, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()

	products := <-productsCh
	suppliers := <-suppliersCh
	stock := <-stockCh
	months := <-monthsCh
	days := <-daysCh
	categories := <-categoriesCh
	top := <-topCh

	switch {
	case products.err != nil:
		return nil, fmt.Errorf("dashboard: total de productos: %w", products.err)
	case suppliers.err != nil:
		return nil, fmt.Errorf("dashboard: total de proveedores: %w", suppliers.err)
	case stock.err != nil:
		return nil, fmt.Errorf("dashboard: resumen de stock: %w", stock.err)
	case months.err != nil:
		return nil, fmt.Errorf("dashboard: valor por mes: %w", months.err)
	case days.err != nil:
		return nil, fmt.Errorf("dashboard: tendencia de ventas: %w", days.err)
	case categories.err != nil:
		return nil, fmt.Errorf("dashboard: categorías: %w", categories.err)
	case top.err != nil:
		return nil, fmt.Errorf("dashboard: más vendidos: %w", top.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DashboardResponse{
		Summary: dto.DashboardSummary{
			TotalProducts:         products.n,
			TotalSuppliers:        suppliers.n,
			LowStockItems:         stock.s.LowStockItems,
			TotalStockValueCost:   stock.s.StockValueCost.Round(2),
			TotalStockValueRetail: stock.s.StockValueRetail.Round(2),
		},
		Charts: dto.DashboardCharts{
			StockValueByMonth:    monthSeries(monthSince, months.rows),
			SalesTrendLast7Days:  make([]dto.DaySalesPoint, 0, len(days.rows)),
			CategoryDistribution: make([]dto.CategoryCountPoint, 0, len(categories.rows)),
		},
		TopProductsSold: make([]dto.TopProductDTO, 0, len(top.rows)),
	}
	for _, d := range days.rows {
		out.Charts.SalesTrendLast7Days = append(out.Charts.SalesTrendLast7Days, dto.DaySalesPoint{
			Day:   d.Day,
			Sales: d.Sales.Round(2),
		})
	}
	for _, c := range categories.rows {
		out.Charts.CategoryDistribution = append(out.Charts.CategoryDistribution, dto.CategoryCountPoint{
			Category: categoryLabel(c.Category),
			Count:    c.Count,
		})
	}
	for _, t := range top.rows {
		out.TopProductsSold = append(out.TopProductsSold, dto.TopProductDTO{
			Name:         t.Name,
			Category:     categoryLabel(t.Category),
			QuantitySold: t.QuantitySold,
			SalesValue:   t.SalesValue.Round(2),
		})
	}
	return out, nil
}

// dashboardRanges inicio de la tendencia diaria y del gráfico mensual, en UTC.
// Los repositorios agrupan por día y mes en UTC, así ambos lados usan los mismos cortes.
func dashboardRanges(now time.Time) (trendSince, monthSince time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	trendSince = today.AddDate(0, 0, -(dashboardTrendDays - 1))
	monthSince = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)
	return trendSince, monthSince
}

// monthSeries completa con cero los meses sin productos dados de alta.
func monthSeries(since time.Time, rows []repository.MonthValue) []dto.MonthValuePoint {
	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Value
	}
	out := make([]dto.MonthValuePoint, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		m := since.AddDate(0, i, 0)
		v, ok := byMonth[m.Format("2006-01")]
		if !ok {
			v = decimal.Zero
		}
		out = append(out, dto.MonthValuePoint{Month: m.Format("Jan"), Value: v.Round(2)})
	}
	return out
}

func categoryLabel(name string) string {
	if name == "" {
		return entity.UncategorizedLabel
	}
	return name
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
