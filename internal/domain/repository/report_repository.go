package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary totales del reporte de ventas.
type SalesSummary struct {
	Invoices  int
	ItemsSold int
	Revenue   decimal.Decimal // suma de net_total
	Discounts decimal.Decimal
}

// StockSummary totales del reporte de stock.
type StockSummary struct {
	StockValueCost   decimal.Decimal // Σ purchase_price × current_stock
	StockValueRetail decimal.Decimal // Σ sell_price × current_stock
	LowStockItems    int             // current_stock <= reorder_level
	OutOfStockItems  int             // current_stock <= 0
}

// MonthValue valor de stock agrupado por mes de alta del producto.
type MonthValue struct {
	Month string // YYYY-MM en UTC
	Value decimal.Decimal
}

// DayValue ventas netas de un día.
type DayValue struct {
	Day   string // YYYY-MM-DD en UTC
	Sales decimal.Decimal
}

// CategoryCount cantidad de productos por categoría ("" = sin categoría).
type CategoryCount struct {
	Category string
	Count    int
}

// TopProduct producto más vendido por unidades.
type TopProduct struct {
	Name         string
	Category     string
	QuantitySold int
	SalesValue   decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes y dashboard.
// Las implementaciones no modifican datos.
type ReportRepository interface {
	// SalesSummary agrega las ventas que cumplen el filtro (Limit/Offset se ignoran).
	SalesSummary(ctx context.Context, organizationID string, f DocumentFilter) (SalesSummary, error)
	// StockSummary agrega los productos que cumplen la búsqueda (vacío = todos).
	StockSummary(ctx context.Context, organizationID, search string) (StockSummary, error)

	// ── Métodos del Dashboard ─────────────────────────────────────────────────

	ProductCount(ctx context.Context, organizationID string) (int, error)
	StockValueByMonth(ctx context.Context, organizationID string, since time.Time) ([]MonthValue, error)
	SalesByDay(ctx context.Context, organizationID string, since time.Time) ([]DayValue, error)
	CategoryDistribution(ctx context.Context, organizationID string) ([]CategoryCount, error)
	TopProductsSold(ctx context.Context, organizationID string, limit int) ([]TopProduct, error)
}
