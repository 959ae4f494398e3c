package dto

import "github.com/shopspring/decimal"

// SalesReportSummary totales del reporte de ventas.
type SalesReportSummary struct {
	Invoices  int             `json:"invoices"`
	ItemsSold int             `json:"items_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Discounts decimal.Decimal `json:"discounts"`
}

// SalesReportResponse respuesta de GET /api/reports/sales.
type SalesReportResponse struct {
	Summary SalesReportSummary `json:"summary"`
	Sales   []SaleResponse     `json:"sales"`
}

// StockReportSummary totales del reporte de stock.
type StockReportSummary struct {
	StockValueCost   decimal.Decimal `json:"stock_value_cost"`
	StockValueRetail decimal.Decimal `json:"stock_value_retail"`
	LowStockItems    int             `json:"low_stock_items"`
	OutOfStockItems  int             `json:"out_of_stock_items"`
}

// StockReportProduct fila del reporte de stock.
type StockReportProduct struct {
	ID               string          `json:"id"`
	ProductCode      string          `json:"product_code"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	CategoryName     string          `json:"category_name"`
	Unit             string          `json:"unit"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SellPrice        decimal.Decimal `json:"sell_price"`
	ReorderLevel     int             `json:"reorder_level"`
	CurrentStock     int             `json:"current_stock"`
	Status           string          `json:"status"`
	StockStatus      string          `json:"stock_status"`
	StockValueCost   decimal.Decimal `json:"stock_value_cost"`
	StockValueRetail decimal.Decimal `json:"stock_value_retail"`
}

// StockReportResponse respuesta de GET /api/reports/stock.
type StockReportResponse struct {
	Summary  StockReportSummary   `json:"summary"`
	Products []StockReportProduct `json:"products"`
}

// DashboardSummary KPIs del dashboard de inventario.
type DashboardSummary struct {
	TotalProducts         int             `json:"total_products"`
	TotalSuppliers        int             `json:"total_suppliers"`
	LowStockItems         int             `json:"low_stock_items"`
	TotalStockValueCost   decimal.Decimal `json:"total_stock_value_cost"`
	TotalStockValueRetail decimal.Decimal `json:"total_stock_value_retail"`
}

// MonthValuePoint punto del gráfico de valor de stock por mes (label "Jan", "Feb"...).
type MonthValuePoint struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// DaySalesPoint ventas netas de un día (YYYY-MM-DD).
type DaySalesPoint struct {
	Day   string          `json:"day"`
	Sales decimal.Decimal `json:"sales"`
}

// CategoryCountPoint productos por categoría.
type CategoryCountPoint struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DashboardCharts series de los gráficos.
type DashboardCharts struct {
	StockValueByMonth    []MonthValuePoint    `json:"stock_value_by_month"`
	SalesTrendLast7Days  []DaySalesPoint      `json:"sales_trend_last_7_days"`
	CategoryDistribution []CategoryCountPoint `json:"category_distribution"`
}

// TopProductDTO producto del ranking de más vendidos.
type TopProductDTO struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	QuantitySold int             `json:"quantity_sold"`
	SalesValue   decimal.Decimal `json:"sales_value"`
}

// DashboardResponse respuesta de GET /api/dashboard/inventory.
type DashboardResponse struct {
	Summary         DashboardSummary `json:"summary"`
	Charts          DashboardCharts  `json:"charts"`
	TopProductsSold []TopProductDTO  `json:"top_products_sold"`
}
